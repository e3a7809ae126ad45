package mesh

import (
	"fmt"

	"github.com/phil-mansfield/spinfpe/geom"
)

// Grid3D is a structured box of Nx * Ny * Nz hexahedral cells with its lower
// corner at the origin.
type Grid3D struct {
	Dx, Dy, Dz float64
	Nx, Ny, Nz int
}

// Check returns an error if the grid has a non-positive size.
func (g *Grid3D) Check() error {
	if g.Nx <= 0 || g.Ny <= 0 || g.Nz <= 0 {
		return fmt.Errorf("Grid3D needs positive cell counts, got %d x %d x %d.",
			g.Nx, g.Ny, g.Nz)
	} else if g.Dx <= 0 || g.Dy <= 0 || g.Dz <= 0 {
		return fmt.Errorf("Grid3D needs positive cell widths, got %g x %g x %g.",
			g.Dx, g.Dy, g.Dz)
	}
	return nil
}

// CellCount returns the number of cells in the grid.
func (g *Grid3D) CellCount() int { return g.Nx * g.Ny * g.Nz }

// FaceCount returns the number of faces in the grid.
func (g *Grid3D) FaceCount() int {
	return g.Nx*g.Ny*(g.Nz+1) + g.Nx*(g.Ny+1)*g.Nz + (g.Nx+1)*g.Ny*g.Nz
}

// CellCenters returns the centers of all cells, x-major.
func (g *Grid3D) CellCenters() []geom.Vec {
	idx := geom.NewGrid([3]int{g.Nx, g.Ny, g.Nz})
	centers := make([]geom.Vec, idx.Volume)
	for i := range centers {
		x, y, z := idx.Coords(i)
		centers[i] = geom.Vec{
			(float64(x) + 0.5) * g.Dx,
			(float64(y) + 0.5) * g.Dy,
			(float64(z) + 0.5) * g.Dz,
		}
	}
	return centers
}

// FaceCenters returns the centers of all faces. The z-normal faces come
// first, followed by the y-normal faces and then the x-normal faces. Each
// group is x-major.
func (g *Grid3D) FaceCenters() []geom.Vec {
	centers := make([]geom.Vec, 0, g.FaceCount())

	// The offset array gives the half-cell shift along each axis: the normal
	// axis of a face group sits on cell boundaries.
	groups := []struct {
		width  [3]int
		offset geom.Vec
	}{
		{[3]int{g.Nx, g.Ny, g.Nz + 1}, geom.Vec{0.5, 0.5, 0}},
		{[3]int{g.Nx, g.Ny + 1, g.Nz}, geom.Vec{0.5, 0, 0.5}},
		{[3]int{g.Nx + 1, g.Ny, g.Nz}, geom.Vec{0, 0.5, 0.5}},
	}

	for _, group := range groups {
		idx := geom.NewGrid(group.width)
		for i := 0; i < idx.Volume; i++ {
			x, y, z := idx.Coords(i)
			centers = append(centers, geom.Vec{
				(float64(x) + group.offset[0]) * g.Dx,
				(float64(y) + group.offset[1]) * g.Dy,
				(float64(z) + group.offset[2]) * g.Dz,
			})
		}
	}

	return centers
}
