package mesh

import (
	"fmt"

	"github.com/phil-mansfield/spinfpe/geom"
)

// MaxSubdivisions is the largest accepted argument to UnitSphere.
const MaxSubdivisions = 9

var octahedronFaces = [8][3]int{
	{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
	{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
}

// UnitSphere returns a triangulation of the unit sphere made by recursively
// splitting each face of an octahedron into four and pushing the new points
// out to the sphere. The result has 8 * 4^subdivisions triangles, all
// oriented outwards and tagged with physical region 1.
func UnitSphere(subdivisions int) (*Mesh, error) {
	if subdivisions < 0 || subdivisions > MaxSubdivisions {
		return nil, fmt.Errorf(
			"Sphere subdivisions must be in the range [0, %d], but is %d.",
			MaxSubdivisions, subdivisions,
		)
	}

	m := &Mesh{
		Points: []geom.Vec{
			{1, 0, 0}, {-1, 0, 0}, {0, 1, 0},
			{0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		},
		PhysicalNames: map[int]string{1: "sphere"},
	}

	tris := make([][]int, len(octahedronFaces))
	for i := range octahedronFaces {
		tris[i] = []int{
			octahedronFaces[i][0], octahedronFaces[i][1], octahedronFaces[i][2],
		}
	}

	for s := 0; s < subdivisions; s++ {
		mids := map[[2]int]int{}
		next := make([][]int, 0, 4*len(tris))
		for _, t := range tris {
			a := m.midpoint(mids, t[0], t[1])
			b := m.midpoint(mids, t[1], t[2])
			c := m.midpoint(mids, t[2], t[0])
			next = append(next,
				[]int{t[0], a, c}, []int{a, t[1], b},
				[]int{c, b, t[2]}, []int{a, b, c},
			)
		}
		tris = next
	}

	phys := make([]int, len(tris))
	for i := range phys {
		phys[i] = 1
	}
	m.Blocks = []CellBlock{{Type: Triangle, Cells: tris, Physical: phys}}

	return m, nil
}

// midpoint returns the index of the point halfway along the great circle
// between points i and j, creating it if needed.
func (m *Mesh) midpoint(mids map[[2]int]int, i, j int) int {
	key := [2]int{i, j}
	if j < i {
		key = [2]int{j, i}
	}
	if idx, ok := mids[key]; ok {
		return idx
	}

	p := m.Points[i]
	p.Add(&m.Points[j])
	// Opposite points never share an edge, so this can't fail.
	if err := p.Normalize(); err != nil {
		panic(err.Error())
	}

	m.Points = append(m.Points, p)
	mids[key] = len(m.Points) - 1
	return mids[key]
}
