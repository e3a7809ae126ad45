package field

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/spinfpe/geom"
	"github.com/phil-mansfield/spinfpe/mesh"
)

func sphereCell(t *testing.T, n int, value func(v geom.Vec) float64) *Cell {
	m, err := mesh.UnitSphere(n)
	require.NoError(t, err)
	centers := m.CellCenters(mesh.Triangle)
	c := NewCell("phi", centers, 0)
	for i := range centers {
		c.Values[i] = value(centers[i])
	}
	return c
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := sphereCell(t, 2, func(v geom.Vec) float64 { return v[2] })

	buf := &bytes.Buffer{}
	require.NoError(t, WriteCell(buf, c))
	assert.Equal(t, 4+4+24+3+c.Len()*32, buf.Len())

	c2, err := ReadCell(buf)
	require.NoError(t, err)
	assert.Equal(t, c.Name, c2.Name)
	assert.Equal(t, c.Centers, c2.Centers)
	assert.Equal(t, c.Values, c2.Values)
}

func TestSnapshotBigEndian(t *testing.T) {
	c := &Cell{
		Name:    "rho",
		Centers: []geom.Vec{{1, 2, 3}, {4, 5, 6}},
		Values:  []float64{0.5, -2},
	}

	// Hand-write a big endian file.
	buf := &bytes.Buffer{}
	hd := SnapshotHeader{Version: SnapshotVersion, Count: 2, NameLen: 3}
	for _, x := range []interface{}{
		int32(0), int32(24), &hd, []byte("rho"), c.Centers, c.Values,
	} {
		require.NoError(t, binary.Write(buf, binary.BigEndian, x))
	}

	c2, err := ReadCell(buf)
	require.NoError(t, err)
	assert.Equal(t, c, c2)
}

func TestSnapshotCorrupt(t *testing.T) {
	c := &Cell{
		Name:    "phi",
		Centers: []geom.Vec{{0, 0, 1}, {0, 1, 0}},
		Values:  []float64{1, 2},
	}
	good := &bytes.Buffer{}
	require.NoError(t, WriteCell(good, c))
	data := good.Bytes()

	truncated := data[:len(data)-3]
	trailing := append(append([]byte{}, data...), 0)
	badFlag := append([]byte{7, 0, 0, 0}, data[4:]...)
	badSize := append(append([]byte{}, data[:4]...), 99, 0, 0, 0)
	badSize = append(badSize, data[8:]...)

	table := [][]byte{nil, truncated, trailing, badFlag, badSize}
	for i, b := range table {
		_, err := ReadCell(bytes.NewReader(b))
		assert.Error(t, err, "%d) corrupt snapshot was read", i+1)
	}

	bad := &Cell{Name: "x", Centers: []geom.Vec{{1, 0, 0}}}
	assert.Error(t, WriteCell(&bytes.Buffer{}, bad))
}

func TestSnapshotFile(t *testing.T) {
	c := sphereCell(t, 1, func(v geom.Vec) float64 { return 0.25 / math.Pi })
	fname := filepath.Join(t.TempDir(), "phi.dat")

	require.NoError(t, WriteCellFile(fname, c))
	c2, err := ReadCellFile(fname)
	require.NoError(t, err)
	assert.Equal(t, c.Values, c2.Values)

	_, err = ReadCellFile(filepath.Join(t.TempDir(), "missing.dat"))
	assert.Error(t, err)
}

func TestSamplerNearest(t *testing.T) {
	c := sphereCell(t, 3, func(v geom.Vec) float64 { return v[0] + 2*v[1] })
	s, err := NewSampler(c)
	require.NoError(t, err)

	// Every center is its own nearest neighbor, at any order.
	for i := range c.Centers {
		assert.Equal(t, i, s.Nearest(c.Centers[i]))
		assert.Equal(t, c.Values[i], s.Sample(c.Centers[i], 0))
		assert.Equal(t, c.Values[i], s.Sample(c.Centers[i], 1))
	}

	// Brute force comparison at random-ish points.
	for k := 0; k < 200; k++ {
		theta := math.Pi * float64(k) / 200
		rho := 2 * math.Pi * math.Mod(0.618*float64(k), 1)
		x := geom.FromSpherical(theta, rho)

		bestDist := math.Inf(1)
		for i := range c.Centers {
			if d := c.Centers[i].Distance(&x); d < bestDist {
				bestDist = d
			}
		}
		got := s.Nearest(x)
		assert.InDelta(t, bestDist, c.Centers[got].Distance(&x), 1e-14,
			"%d) nearest center to %v", k, x)
	}
}

func TestSamplerLinear(t *testing.T) {
	c := sphereCell(t, 4, func(v geom.Vec) float64 { return 1 + v[2] })
	s, err := NewSampler(c)
	require.NoError(t, err)

	for k := 0; k < 50; k++ {
		theta := 0.1 + 2.9*float64(k)/50
		x := geom.FromSpherical(theta, 1.3)
		v := s.SampleSpherical(theta, 1.3, 1)
		// Triangles are about 0.1 across at this resolution.
		assert.InDelta(t, 1+x[2], v, 0.15, "%d) theta = %g", k, theta)
	}
}

func TestSamplerErrors(t *testing.T) {
	_, err := NewSampler(&Cell{Name: "empty"})
	assert.Equal(t, ErrEmptyField, err)

	_, err = NewSampler(&Cell{Centers: []geom.Vec{{0, 0, 1}}})
	assert.Error(t, err)
}

func TestSphericalIntegrand(t *testing.T) {
	c := sphereCell(t, 2, func(v geom.Vec) float64 { return 3 })
	s, err := NewSampler(c)
	require.NoError(t, err)

	f := s.SphericalIntegrand(0)
	assert.InDelta(t, 3*math.Sin(0.7), f(0.7, 2.0), 1e-14)
	assert.InDelta(t, 0, f(0, 1.0), 1e-14)
}

func TestFace(t *testing.T) {
	centers := []geom.Vec{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	f := NewFace("m", centers, geom.Vec{0, 0, 1})
	assert.Equal(t, []float64{1, 1, 1}, f.Dot(&geom.Vec{1, 0, 1}))

	require.NoError(t, f.SetValue(mesh.Matrix(centers)))
	assert.Equal(t, geom.Vec{0, 1, 0}, f.At(1))
	assert.Equal(t, []float64{1, 0, 1}, f.Dot(&geom.Vec{1, 0, 1}))

	assert.Error(t, f.SetValue(mat.NewDense(3, 2, nil)))

	m := CenterFace("m", centers)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, geom.Vec{0, 0, 1}, m.At(2))
	assert.Equal(t, []float64{0, 0, 2}, m.Dot(&geom.Vec{0, 0, 2}))

	empty := CenterFace("m", nil)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []float64{}, empty.Dot(&geom.Vec{0, 0, 1}))
}
