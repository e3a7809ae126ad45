package mesh

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/spinfpe/geom"
)

// testMsh is a unit cube split into five tetrahedra whose bottom face is also
// meshed with two tagged triangles.
const testMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
2
2 10 "bottom"
3 20 "volume"
$EndPhysicalNames
$Nodes
8
1 0 0 0
2 1 0 0
3 1 1 0
4 0 1 0
5 0 0 1
6 1 0 1
7 1 1 1
8 0 1 1
$EndNodes
$Elements
7
1 2 2 10 1 1 2 3
2 2 2 10 1 1 3 4
3 4 2 20 2 1 2 4 5
4 4 2 20 2 2 3 4 7
5 4 2 20 2 2 5 6 7
6 4 2 20 2 4 5 7 8
7 4 2 20 2 2 4 5 7
$EndElements
`

func TestReadMsh(t *testing.T) {
	m, err := ReadMsh(strings.NewReader(testMsh))
	require.NoError(t, err)
	require.NoError(t, m.Check())

	assert.Equal(t, 8, len(m.Points))
	assert.Equal(t, geom.Vec{1, 1, 1}, m.Points[6])
	assert.Equal(t, "bottom", m.PhysicalNames[10])
	assert.Equal(t, "volume", m.PhysicalNames[20])

	require.Equal(t, 2, len(m.Blocks))
	assert.Equal(t, Triangle, m.Blocks[0].Type)
	assert.Equal(t, Tetra, m.Blocks[1].Type)
	assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, m.Blocks[0].Cells)
	assert.Equal(t, []int{10, 10}, m.Blocks[0].Physical)
	assert.Equal(t, 5, m.CellCount(Tetra))
	assert.Equal(t, 3, m.Dim())

	centers := m.CellCenters(Triangle)
	assert.InDelta(t, 2.0/3, centers[0][0], 1e-15)
	assert.InDelta(t, 1.0/3, centers[0][1], 1e-15)
}

func TestReadMshErrors(t *testing.T) {
	table := []string{
		"",
		"$MeshFormat\n4.1 0 8\n$EndMeshFormat\n",
		"$MeshFormat\n2.2 1 8\n$EndMeshFormat\n",
		"$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 0\n$EndNodes\n",
		"$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 0 0\n$EndNodes\n" +
			"$Elements\n1\n1 2 0 1 1 2\n$EndElements\n",
		"$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 0 0\n$EndNodes\n" +
			"$Elements\n1\n1 9 0 1 1 1 1 1 1\n$EndElements\n",
		"$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 0 0\n",
	}

	for i, text := range table {
		_, err := ReadMsh(strings.NewReader(text))
		assert.Error(t, err, "%d) expected error", i+1)
	}
}

func TestMshRoundTrip(t *testing.T) {
	m, err := UnitSphere(1)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteMsh(buf, m))
	m2, err := ReadMsh(buf)
	require.NoError(t, err)

	assert.Equal(t, m.Points, m2.Points)
	assert.Equal(t, m.Blocks, m2.Blocks)
	assert.Equal(t, "sphere", m2.PhysicalNames[1])
}

func TestXDMFRoundTrip(t *testing.T) {
	m, err := ReadMsh(strings.NewReader(testMsh))
	require.NoError(t, err)

	sub, tags, ok := Split(m, Triangle)
	require.True(t, ok)

	buf := &bytes.Buffer{}
	data := &CellData{Name: DefaultTagName, Values: tags}
	require.NoError(t, WriteXDMF(buf, sub, &sub.Blocks[0], data))
	assert.Contains(t, buf.String(), `TopologyType="Triangle"`)
	assert.Contains(t, buf.String(), `Name="name_to_read"`)

	m2, data2, err := ReadXDMF(buf)
	require.NoError(t, err)
	assert.Equal(t, m.Points, m2.Points)
	assert.Equal(t, sub.Blocks[0].Cells, m2.Blocks[0].Cells)
	assert.Equal(t, []int{10, 10}, data2[DefaultTagName])

	err = WriteXDMF(buf, sub, &sub.Blocks[0], &CellData{"bad", []int{1}})
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	m, err := ReadMsh(strings.NewReader(testMsh))
	require.NoError(t, err)

	dir := t.TempDir()
	targets := []Target{
		{Type: Triangle, File: filepath.Join(dir, "mf.xdmf"), Tagged: true},
		{Type: Tetra, File: filepath.Join(dir, "mesh.xdmf")},
		{Type: Hexahedron, File: filepath.Join(dir, "hex.xdmf")},
	}

	written, err := Convert(m, targets)
	require.NoError(t, err)
	assert.Equal(t, []string{targets[0].File, targets[1].File}, written)

	_, err = os.Stat(targets[2].File)
	assert.True(t, os.IsNotExist(err), "missing cell type produced a file")

	tri, data, err := ReadXDMFFile(targets[0].File)
	require.NoError(t, err)
	assert.Equal(t, 2, tri.CellCount(Triangle))
	assert.Equal(t, []int{10, 10}, data[DefaultTagName])

	tet, data, err := ReadXDMFFile(targets[1].File)
	require.NoError(t, err)
	assert.Equal(t, 5, tet.CellCount(Tetra))
	assert.Equal(t, 0, len(data))
}

func TestGrid3D(t *testing.T) {
	g := &Grid3D{Dx: 0.1, Dy: 0.2, Dz: 0.5, Nx: 3, Ny: 2, Nz: 4}
	require.NoError(t, g.Check())

	cells := g.CellCenters()
	faces := g.FaceCenters()
	assert.Equal(t, 24, len(cells))
	assert.Equal(t, 3*2*5+3*3*4+4*2*4, len(faces))
	assert.Equal(t, g.FaceCount(), len(faces))

	assert.InDelta(t, 0.05, cells[0][0], 1e-15)
	assert.InDelta(t, 0.15, cells[1][0], 1e-15)
	assert.InDelta(t, 0.3, cells[3][1], 1e-15)

	// First z-normal face, first y-normal face, first x-normal face.
	assert.InDeltaSlice(t, []float64{0.05, 0.1, 0}, faces[0][:], 1e-15)
	assert.InDeltaSlice(t, []float64{0.05, 0, 0.25}, faces[30][:], 1e-15)
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.25}, faces[66][:], 1e-15)

	bad := &Grid3D{Dx: 1, Dy: 1, Dz: 1, Nx: 0, Ny: 1, Nz: 1}
	assert.Error(t, bad.Check())
}

func TestUnitSphere(t *testing.T) {
	for n := 0; n <= 4; n++ {
		m, err := UnitSphere(n)
		require.NoError(t, err)
		require.NoError(t, m.Check())

		tris := 8 * int(math.Pow(4, float64(n)))
		assert.Equal(t, tris, m.CellCount(Triangle), "%d) triangles", n)
		// Euler characteristic of the sphere: V - E + F = 2.
		assert.Equal(t, 2, len(m.Points)-len(m.Faces(Triangle))+tris,
			"%d) Euler characteristic", n)

		min, max := NormRange(m.Points)
		assert.InDelta(t, 1, min, 1e-14)
		assert.InDelta(t, 1, max, 1e-14)

		// Every triangle points outwards.
		block := m.Blocks[0]
		for i, tri := range block.Cells {
			a, b, c := m.Points[tri[0]], m.Points[tri[1]], m.Points[tri[2]]
			b.Sub(&a)
			c.Sub(&a)
			normal := b.Cross(&c)
			if normal.Dot(&a) <= 0 {
				t.Errorf("%d) triangle %d is oriented inwards", n, i)
				break
			}
		}
	}

	_, err := UnitSphere(-1)
	assert.Error(t, err)
	_, err = UnitSphere(MaxSubdivisions + 1)
	assert.Error(t, err)
}

func TestFaces(t *testing.T) {
	m, err := ReadMsh(strings.NewReader(testMsh))
	require.NoError(t, err)

	// Two triangles sharing one edge.
	assert.Equal(t, 5, len(m.Faces(Triangle)))
	// Five tetrahedra: 4 interior faces shared, 12 boundary faces.
	assert.Equal(t, 16, len(m.Faces(Tetra)))
	assert.Nil(t, m.Faces(Vertex))

	fc := m.FaceCenters(Triangle)
	assert.InDeltaSlice(t, []float64{0.5, 0, 0}, fc[0][:], 1e-15)
}

func TestMatrix(t *testing.T) {
	vs := []geom.Vec{{1, 2, 3}, {4, 5, 6}}
	mat := Matrix(vs)
	r, c := mat.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 5.0, mat.At(1, 1))
	assert.Equal(t, vs, Vecs(mat))
}

func TestReadCenters(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "centers.txt")
	text := "0 0 1\n1 0 0\n0.5 0.5 0.5\n"
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))

	vs, err := ReadCenters(fname)
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec{{0, 0, 1}, {1, 0, 0}, {0.5, 0.5, 0.5}}, vs)
}
