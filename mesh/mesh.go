/*package mesh contains an unstructured mesh representation along with readers,
writers and generators for the meshes used on and around the unit sphere.
*/
package mesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/spinfpe/geom"
)

// CellType is the geometric type of a mesh cell. Names follow the meshio
// conventions used by XDMF consumers.
type CellType string

const (
	Vertex     CellType = "vertex"
	Line       CellType = "line"
	Triangle   CellType = "triangle"
	Quad       CellType = "quad"
	Tetra      CellType = "tetra"
	Hexahedron CellType = "hexahedron"
)

// Nodes returns the number of nodes in a cell of the given type, or -1 if the
// type is unknown.
func (t CellType) Nodes() int {
	switch t {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad:
		return 4
	case Tetra:
		return 4
	case Hexahedron:
		return 8
	}
	return -1
}

// Dim returns the topological dimension of the cell type.
func (t CellType) Dim() int {
	switch t {
	case Vertex:
		return 0
	case Line:
		return 1
	case Triangle, Quad:
		return 2
	case Tetra, Hexahedron:
		return 3
	}
	return -1
}

// faceNodes lists, for each cell type, the local node indices of its faces:
// edges for surface cells and polygons for volume cells.
var faceNodes = map[CellType][][]int{
	Line:     {{0}, {1}},
	Triangle: {{0, 1}, {1, 2}, {2, 0}},
	Quad:     {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	Tetra:    {{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
	Hexahedron: {
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	},
}

// CellBlock is a group of cells which share a type.
type CellBlock struct {
	Type  CellType
	Cells [][]int // Indices into Mesh.Points
	// Physical region tag of each cell. Either nil or len(Cells) long.
	Physical []int
}

// Mesh is a set of points and the cells built on top of them.
type Mesh struct {
	Points []geom.Vec
	Blocks []CellBlock
	// PhysicalNames maps physical region tags to their names, if known.
	PhysicalNames map[int]string
}

// Check returns an error if any cell references a point which doesn't exist
// or has the wrong number of nodes.
func (m *Mesh) Check() error {
	for b := range m.Blocks {
		block := &m.Blocks[b]
		n := block.Type.Nodes()
		if n < 0 {
			return fmt.Errorf("Block %d has unknown cell type '%s'.",
				b, block.Type)
		}
		if block.Physical != nil && len(block.Physical) != len(block.Cells) {
			return fmt.Errorf(
				"Block %d has %d cells but %d physical tags.",
				b, len(block.Cells), len(block.Physical),
			)
		}
		for i, cell := range block.Cells {
			if len(cell) != n {
				return fmt.Errorf(
					"Cell %d of %s block %d has %d nodes instead of %d.",
					i, block.Type, b, len(cell), n,
				)
			}
			for _, p := range cell {
				if p < 0 || p >= len(m.Points) {
					return fmt.Errorf(
						"Cell %d of %s block %d references point %d, but "+
							"there are only %d points.",
						i, block.Type, b, p, len(m.Points),
					)
				}
			}
		}
	}
	return nil
}

// Block returns the concatenation of all the blocks of the given type. ok is
// false if the mesh contains no cells of that type.
func (m *Mesh) Block(t CellType) (block CellBlock, ok bool) {
	block.Type = t
	tagged := true
	for i := range m.Blocks {
		if m.Blocks[i].Type != t {
			continue
		}
		ok = true
		block.Cells = append(block.Cells, m.Blocks[i].Cells...)
		tagged = tagged && m.Blocks[i].Physical != nil
	}

	if ok && tagged {
		for i := range m.Blocks {
			if m.Blocks[i].Type == t {
				block.Physical = append(block.Physical, m.Blocks[i].Physical...)
			}
		}
	}
	return block, ok
}

// CellCount returns the number of cells of the given type.
func (m *Mesh) CellCount(t CellType) int {
	n := 0
	for i := range m.Blocks {
		if m.Blocks[i].Type == t {
			n += len(m.Blocks[i].Cells)
		}
	}
	return n
}

// Dim returns the largest topological dimension of any cell in the mesh.
func (m *Mesh) Dim() int {
	dim := -1
	for i := range m.Blocks {
		if d := m.Blocks[i].Type.Dim(); d > dim {
			dim = d
		}
	}
	return dim
}

func (m *Mesh) centroid(nodes []int) geom.Vec {
	c := geom.Vec{}
	for _, p := range nodes {
		c.Add(&m.Points[p])
	}
	c.Scale(1 / float64(len(nodes)))
	return c
}

// CellCenters returns the centroids of every cell of the given type.
func (m *Mesh) CellCenters(t CellType) []geom.Vec {
	centers := make([]geom.Vec, 0, m.CellCount(t))
	for i := range m.Blocks {
		if m.Blocks[i].Type != t {
			continue
		}
		for _, cell := range m.Blocks[i].Cells {
			centers = append(centers, m.centroid(cell))
		}
	}
	return centers
}

// Faces returns the unique faces of every cell of the given type. For surface
// cells the faces are edges, for volume cells they are polygons. Faces are
// returned in the order they are first encountered.
func (m *Mesh) Faces(t CellType) [][]int {
	local, ok := faceNodes[t]
	if !ok {
		return nil
	}

	seen := map[string]bool{}
	faces := [][]int{}
	key := []int{}
	for i := range m.Blocks {
		if m.Blocks[i].Type != t {
			continue
		}
		for _, cell := range m.Blocks[i].Cells {
			for _, fn := range local {
				face := make([]int, len(fn))
				for j := range fn {
					face[j] = cell[fn[j]]
				}

				key = append(key[:0], face...)
				sort.Ints(key)
				k := fmt.Sprint(key)
				if seen[k] {
					continue
				}
				seen[k] = true
				faces = append(faces, face)
			}
		}
	}
	return faces
}

// FaceCenters returns the centroids of the unique faces of every cell of the
// given type.
func (m *Mesh) FaceCenters(t CellType) []geom.Vec {
	faces := m.Faces(t)
	centers := make([]geom.Vec, len(faces))
	for i := range faces {
		centers[i] = m.centroid(faces[i])
	}
	return centers
}

// NormRange returns the smallest and largest norms of the given vectors.
func NormRange(vs []geom.Vec) (min, max float64) {
	min, max = math.Inf(+1), math.Inf(-1)
	for i := range vs {
		n := vs[i].Norm()
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return min, max
}

// Matrix packs vectors into the columns of a 3 x len(vs) matrix.
func Matrix(vs []geom.Vec) *mat.Dense {
	if len(vs) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(3, len(vs), nil)
	for k := 0; k < 3; k++ {
		row := m.RawRowView(k)
		for i := range vs {
			row[i] = vs[i][k]
		}
	}
	return m
}

// Vecs unpacks the columns of a 3 x N matrix.
func Vecs(m mat.Matrix) []geom.Vec {
	r, c := m.Dims()
	if r != 3 {
		panic(fmt.Sprintf("Expected 3 rows, got %d.", r))
	}
	vs := make([]geom.Vec, c)
	for i := range vs {
		vs[i] = geom.Vec{m.At(0, i), m.At(1, i), m.At(2, i)}
	}
	return vs
}
