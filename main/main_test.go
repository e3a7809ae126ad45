package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/spinfpe/field"
	"github.com/phil-mansfield/spinfpe/geom"
	"github.com/phil-mansfield/spinfpe/io"
	"github.com/phil-mansfield/spinfpe/mesh"
)

func readLines(t *testing.T, fname string) []string {
	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestTorqueMain(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "torque.txt")

	for _, strategy := range []string{"Serial", "Vectorized", "Parallel"} {
		text := fmt.Sprintf(
			"[Torque]\nSource = Sphere\nSubdivisions = 0\nOutput = %s\n"+
				"Strategy = %s\nThreads = 2", out, strategy,
		)
		wrap := io.DefaultTorqueWrapper()
		require.NoError(t, io.ReadConfigString(text, wrap, &wrap.Torque))
		require.NoError(t, torqueMain(&wrap.Torque), strategy)

		lines := readLines(t, out)
		require.Len(t, lines, 9, strategy)
		assert.Equal(t, "# x y z Hx Hy Hz Tx Ty Tz", lines[0])
		assert.Len(t, strings.Fields(lines[1]), 9)
	}
}

func TestTorqueMainSources(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	text := fmt.Sprintf(
		"[Torque]\nSource = Grid\nOutput = %s\nQuantity = AxisField\n"+
			"Nx = 2\nNy = 2\nNz = 2", out,
	)
	wrap := io.DefaultTorqueWrapper()
	require.NoError(t, io.ReadConfigString(text, wrap, &wrap.Torque))
	require.NoError(t, torqueMain(&wrap.Torque))
	g := wrap.Torque.Grid()
	lines := readLines(t, out)
	assert.Len(t, lines, g.FaceCount()+1)
	assert.Equal(t, "# x y z Heffx Heffy Heffz", lines[0])

	msh := filepath.Join(dir, "sphere.msh")
	m, err := mesh.UnitSphere(1)
	require.NoError(t, err)
	f, err := os.Create(msh)
	require.NoError(t, err)
	require.NoError(t, mesh.WriteMsh(f, m))
	require.NoError(t, f.Close())

	text = fmt.Sprintf(
		"[Torque]\nSource = Msh\nInput = %s\nOutput = %s\n"+
			"Quantity = CrossAxis", msh, out,
	)
	wrap = io.DefaultTorqueWrapper()
	require.NoError(t, io.ReadConfigString(text, wrap, &wrap.Torque))
	require.NoError(t, torqueMain(&wrap.Torque))
	lines = readLines(t, out)
	assert.Len(t, lines, 33)
	assert.Equal(t, "# x y z mxux mxuy mxuz", lines[0])
	assert.NotEqual(t, []string{"0", "0", "0"}, strings.Fields(lines[32])[3:])

	wrap.Torque.ExcludeLast = true
	require.NoError(t, torqueMain(&wrap.Torque))
	lines = readLines(t, out)
	require.Len(t, lines, 33)
	assert.Equal(t, []string{"0", "0", "0"}, strings.Fields(lines[32])[3:])

	// Volume meshes are evaluated at the unique faces of their tetrahedra.
	tet := &mesh.Mesh{
		Points: []geom.Vec{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {2, 2, -1}},
		Blocks: []mesh.CellBlock{{
			Type: mesh.Tetra, Cells: [][]int{{0, 1, 2, 3}, {0, 1, 3, 4}},
		}},
	}
	tetMsh := filepath.Join(dir, "tet.msh")
	f, err = os.Create(tetMsh)
	require.NoError(t, err)
	require.NoError(t, mesh.WriteMsh(f, tet))
	require.NoError(t, f.Close())

	text = fmt.Sprintf(
		"[Torque]\nSource = Msh\nInput = %s\nOutput = %s", tetMsh, out,
	)
	wrap = io.DefaultTorqueWrapper()
	require.NoError(t, io.ReadConfigString(text, wrap, &wrap.Torque))
	require.NoError(t, torqueMain(&wrap.Torque))
	lines = readLines(t, out)
	assert.Len(t, lines, 7+1)
	assert.Equal(t, "# x y z Hx Hy Hz Tx Ty Tz", lines[0])

	text = fmt.Sprintf(
		"[Torque]\nSource = Msh\nInput = %s\nOutput = %s",
		filepath.Join(dir, "missing.msh"), out,
	)
	wrap = io.DefaultTorqueWrapper()
	require.NoError(t, io.ReadConfigString(text, wrap, &wrap.Torque))
	assert.Error(t, torqueMain(&wrap.Torque))
}

func TestTorqueMainPlot(t *testing.T) {
	dir := t.TempDir()
	out, png := filepath.Join(dir, "torque.txt"), filepath.Join(dir, "torque.png")
	text := fmt.Sprintf(
		"[Torque]\nSource = Sphere\nSubdivisions = 2\nOutput = %s\n"+
			"PlotFile = %s", out, png,
	)
	wrap := io.DefaultTorqueWrapper()
	require.NoError(t, io.ReadConfigString(text, wrap, &wrap.Torque))
	require.NoError(t, torqueMain(&wrap.Torque))

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

// parseOutput maps the left hand side of every "a = b" line to b.
func parseOutput(t *testing.T, text string) map[string]float64 {
	vals := map[string]float64{}
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		tok := strings.Split(line, " = ")
		require.Len(t, tok, 2, line)
		x, err := strconv.ParseFloat(tok[1], 64)
		require.NoError(t, err, line)
		vals[tok[0]] = x
	}
	return vals
}

func TestFieldMains(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "phi.dat")

	text := fmt.Sprintf("[InitField]\nOutput = %s\nSubdivisions = 3", snap)
	initWrap := io.DefaultInitFieldWrapper()
	require.NoError(t, io.ReadConfigString(text, initWrap, &initWrap.InitField))

	hook := logtest.NewGlobal()
	defer hook.Reset()

	buf := &bytes.Buffer{}
	require.NoError(t, initFieldMain(&initWrap.InitField, buf))
	vals := parseOutput(t, buf.String())
	assert.InDelta(t, initWrap.InitField.Value, vals["phi[0 1 0]"], 1e-10)

	// Triangle centroids lie strictly inside the sphere.
	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Message != "Loaded sphere mesh." {
			continue
		}
		found = true
		rMin, rMax := entry.Data["rMin"].(float64), entry.Data["rMax"].(float64)
		assert.True(t, rMin < 1, "rMin = %g", rMin)
		assert.True(t, rMax < 1, "rMax = %g", rMax)
		assert.True(t, rMin > 0.9, "rMin = %g", rMin)
	}
	assert.True(t, found, "mesh norm range was not logged")

	c, err := field.ReadCellFile(snap)
	require.NoError(t, err)
	assert.Equal(t, "phi", c.Name)
	assert.Equal(t, 8*4*4*4, c.Len())

	for _, order := range []int{0, 1} {
		text = fmt.Sprintf(
			"[Integrate]\nInput = %s\nOrder = %d\nMinOrder = 8\n"+
				"MaxOrder = 32\nThreads = 2", snap, order,
		)
		intWrap := io.DefaultIntegrateWrapper()
		require.NoError(t, io.ReadConfigString(text, intWrap, &intWrap.Integrate))

		buf.Reset()
		require.NoError(t, integrateMain(&intWrap.Integrate, buf))
		vals = parseOutput(t, buf.String())
		assert.InDelta(t, 1.0, vals["integral over sphere"], 1e-6)
		assert.InDelta(t, 0.5, vals["integral over north"], 1e-6)
		assert.InDelta(t, 0.5, vals["integral over south"], 1e-6)
	}

	text = fmt.Sprintf("[Integrate]\nInput = %s", filepath.Join(dir, "none.dat"))
	intWrap := io.DefaultIntegrateWrapper()
	require.NoError(t, io.ReadConfigString(text, intWrap, &intWrap.Integrate))
	assert.Error(t, integrateMain(&intWrap.Integrate, buf))
}

func TestConvertMeshMain(t *testing.T) {
	dir := t.TempDir()
	msh := filepath.Join(dir, "sphere.msh")
	m, err := mesh.UnitSphere(1)
	require.NoError(t, err)
	f, err := os.Create(msh)
	require.NoError(t, err)
	require.NoError(t, mesh.WriteMsh(f, m))
	require.NoError(t, f.Close())

	tri, tet := filepath.Join(dir, "mf.xdmf"), filepath.Join(dir, "mesh.xdmf")
	text := fmt.Sprintf(
		"[ConvertMesh]\nInput = %s\nTriangleOutput = %s\nTetraOutput = %s",
		msh, tri, tet,
	)
	wrap := io.DefaultConvertMeshWrapper()
	require.NoError(t, io.ReadConfigString(text, wrap, &wrap.ConvertMesh))

	written, err := convertMeshMain(&wrap.ConvertMesh)
	require.NoError(t, err)
	assert.Equal(t, []string{tri}, written)

	out, data, err := mesh.ReadXDMFFile(tri)
	require.NoError(t, err)
	assert.Equal(t, 32, out.CellCount(mesh.Triangle))
	assert.Len(t, data[mesh.DefaultTagName], 32)
}

func TestExampleCmd(t *testing.T) {
	for _, mode := range exampleModes() {
		buf := &bytes.Buffer{}
		exampleCmd.SetOut(buf)
		require.NoError(t, exampleCmd.RunE(exampleCmd, []string{mode}))
		assert.Equal(t, exampleFiles[mode], buf.String())
	}
	assert.Error(t, exampleCmd.RunE(exampleCmd, []string{"Density"}))
}
