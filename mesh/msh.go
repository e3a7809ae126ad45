package mesh

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/phil-mansfield/spinfpe/geom"
)

// mshTypes maps Gmsh element type codes to cell types.
var mshTypes = map[int]CellType{
	15: Vertex,
	1:  Line,
	2:  Triangle,
	3:  Quad,
	4:  Tetra,
	5:  Hexahedron,
}

/*
ReadMsh reads a mesh written in the ASCII Gmsh 2.x format. The relevant
sections are:

    $MeshFormat       version file-type data-size
    $PhysicalNames    (optional) dim tag "name" lines
    $Nodes            node-id x y z lines
    $Elements         elm-id elm-type n-tags tag... node-id... lines

The first element tag is taken as the physical region. Elements of types
without a CellType (e.g. second order elements) are an error. Unknown sections
are skipped.
*/
func ReadMsh(r io.Reader) (*Mesh, error) {
	rd := &mshReader{sc: bufio.NewScanner(r)}
	rd.sc.Buffer(make([]byte, 1<<16), 1<<24)

	m := &Mesh{PhysicalNames: map[int]string{}}
	nodeIdx := map[int]int{}
	blockIdx := map[CellType]int{}
	sawFormat, sawNodes := false, false

	for {
		line, ok := rd.next()
		if !ok {
			break
		}
		if !strings.HasPrefix(line, "$") {
			return nil, rd.errorf("Expected section header, found '%s'", line)
		}

		var err error
		switch section := line[1:]; section {
		case "MeshFormat":
			err = rd.readFormat()
			sawFormat = true
		case "PhysicalNames":
			err = rd.readPhysicalNames(m)
		case "Nodes":
			err = rd.readNodes(m, nodeIdx)
			sawNodes = true
		case "Elements":
			if !sawNodes {
				return nil, rd.errorf("$Elements section before $Nodes")
			}
			err = rd.readElements(m, nodeIdx, blockIdx)
		default:
			err = rd.skip(section)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := rd.sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading msh")
	}
	if !sawFormat {
		return nil, errors.New("msh file has no $MeshFormat section")
	}
	if !sawNodes {
		return nil, errors.New("msh file has no $Nodes section")
	}

	return m, nil
}

// ReadMshFile reads the ASCII Gmsh file with the given name.
func ReadMshFile(fname string) (*Mesh, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadMsh(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading mesh file '%s'", fname)
	}
	return m, nil
}

type mshReader struct {
	sc   *bufio.Scanner
	line int
}

func (rd *mshReader) next() (string, bool) {
	for rd.sc.Scan() {
		rd.line++
		line := strings.TrimSpace(rd.sc.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func (rd *mshReader) errorf(format string, args ...interface{}) error {
	return errors.Errorf("line %d: "+format, append([]interface{}{rd.line}, args...)...)
}

func (rd *mshReader) fields(n int) ([]string, error) {
	line, ok := rd.next()
	if !ok {
		return nil, rd.errorf("unexpected end of file")
	}
	fs := strings.Fields(line)
	if len(fs) < n {
		return nil, rd.errorf("expected at least %d fields, found '%s'", n, line)
	}
	return fs, nil
}

func (rd *mshReader) count() (int, error) {
	fs, err := rd.fields(1)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(fs[0])
	if err != nil || n < 0 {
		return 0, rd.errorf("invalid count '%s'", fs[0])
	}
	return n, nil
}

func (rd *mshReader) end(section string) error {
	line, ok := rd.next()
	if !ok || line != "$End"+section {
		return rd.errorf("expected $End%s, found '%s'", section, line)
	}
	return nil
}

func (rd *mshReader) skip(section string) error {
	for {
		line, ok := rd.next()
		if !ok {
			return rd.errorf("unterminated section $%s", section)
		}
		if line == "$End"+section {
			return nil
		}
	}
}

func (rd *mshReader) readFormat() error {
	fs, err := rd.fields(3)
	if err != nil {
		return err
	}
	version, err := strconv.ParseFloat(fs[0], 64)
	if err != nil {
		return rd.errorf("invalid version '%s'", fs[0])
	}
	if version < 2 || version >= 3 {
		return rd.errorf("only msh version 2 is supported, file is %s", fs[0])
	}
	if fs[1] != "0" {
		return rd.errorf("only ASCII msh files are supported")
	}
	return rd.end("MeshFormat")
}

func (rd *mshReader) readPhysicalNames(m *Mesh) error {
	n, err := rd.count()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		fs, err := rd.fields(3)
		if err != nil {
			return err
		}
		tag, err := strconv.Atoi(fs[1])
		if err != nil {
			return rd.errorf("invalid physical tag '%s'", fs[1])
		}
		name := strings.Join(fs[2:], " ")
		m.PhysicalNames[tag] = strings.Trim(name, `"`)
	}
	return rd.end("PhysicalNames")
}

func (rd *mshReader) readNodes(m *Mesh, nodeIdx map[int]int) error {
	n, err := rd.count()
	if err != nil {
		return err
	}
	m.Points = make([]geom.Vec, n)
	for i := 0; i < n; i++ {
		fs, err := rd.fields(4)
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(fs[0])
		if err != nil {
			return rd.errorf("invalid node id '%s'", fs[0])
		}
		for k := 0; k < 3; k++ {
			m.Points[i][k], err = strconv.ParseFloat(fs[k+1], 64)
			if err != nil {
				return rd.errorf("invalid coordinate '%s'", fs[k+1])
			}
		}
		nodeIdx[id] = i
	}
	return rd.end("Nodes")
}

func (rd *mshReader) readElements(
	m *Mesh, nodeIdx map[int]int, blockIdx map[CellType]int,
) error {
	n, err := rd.count()
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		fs, err := rd.fields(3)
		if err != nil {
			return err
		}
		ints := make([]int, len(fs))
		for j := range fs {
			if ints[j], err = strconv.Atoi(fs[j]); err != nil {
				return rd.errorf("invalid integer '%s'", fs[j])
			}
		}

		typ, ok := mshTypes[ints[1]]
		if !ok {
			return rd.errorf("unsupported element type %d", ints[1])
		}
		nTags := ints[2]
		nodes := ints[3:]
		if nTags < 0 || len(nodes) != nTags+typ.Nodes() {
			return rd.errorf("element %d has %d fields after its tag count, "+
				"expected %d", ints[0], len(nodes), nTags+typ.Nodes())
		}

		phys := 0
		if nTags > 0 {
			phys = nodes[0]
		}
		cell := make([]int, typ.Nodes())
		for j := range cell {
			idx, ok := nodeIdx[nodes[nTags+j]]
			if !ok {
				return rd.errorf("element %d references unknown node %d",
					ints[0], nodes[nTags+j])
			}
			cell[j] = idx
		}

		b, ok := blockIdx[typ]
		if !ok {
			m.Blocks = append(m.Blocks, CellBlock{Type: typ, Physical: []int{}})
			b = len(m.Blocks) - 1
			blockIdx[typ] = b
		}
		m.Blocks[b].Cells = append(m.Blocks[b].Cells, cell)
		m.Blocks[b].Physical = append(m.Blocks[b].Physical, phys)
	}

	return rd.end("Elements")
}

// WriteMsh writes m in the ASCII Gmsh 2.2 format. Cells without physical tags
// are written with a tag of 0.
func WriteMsh(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	codes := map[CellType]int{}
	for code, typ := range mshTypes {
		codes[typ] = code
	}

	bw.WriteString("$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	if len(m.PhysicalNames) > 0 {
		bw.WriteString("$PhysicalNames\n")
		bw.WriteString(strconv.Itoa(len(m.PhysicalNames)) + "\n")
		for _, tag := range sortedTags(m.PhysicalNames) {
			dim := m.physicalDim(tag)
			bw.WriteString(strconv.Itoa(dim) + " " + strconv.Itoa(tag) +
				" \"" + m.PhysicalNames[tag] + "\"\n")
		}
		bw.WriteString("$EndPhysicalNames\n")
	}

	bw.WriteString("$Nodes\n" + strconv.Itoa(len(m.Points)) + "\n")
	for i, p := range m.Points {
		bw.WriteString(strconv.Itoa(i+1))
		for k := 0; k < 3; k++ {
			bw.WriteString(" " + strconv.FormatFloat(p[k], 'g', -1, 64))
		}
		bw.WriteString("\n")
	}
	bw.WriteString("$EndNodes\n")

	total := 0
	for _, b := range m.Blocks {
		total += len(b.Cells)
	}
	bw.WriteString("$Elements\n" + strconv.Itoa(total) + "\n")
	id := 1
	for _, b := range m.Blocks {
		code, ok := codes[b.Type]
		if !ok {
			return errors.Errorf("cannot write cell type '%s' to msh", b.Type)
		}
		for i, cell := range b.Cells {
			phys := 0
			if b.Physical != nil {
				phys = b.Physical[i]
			}
			bw.WriteString(strconv.Itoa(id) + " " + strconv.Itoa(code) +
				" 2 " + strconv.Itoa(phys) + " " + strconv.Itoa(phys))
			for _, p := range cell {
				bw.WriteString(" " + strconv.Itoa(p+1))
			}
			bw.WriteString("\n")
			id++
		}
	}
	bw.WriteString("$EndElements\n")

	return bw.Flush()
}

func (m *Mesh) physicalDim(tag int) int {
	for _, b := range m.Blocks {
		for _, p := range b.Physical {
			if p == tag {
				return b.Type.Dim()
			}
		}
	}
	return m.Dim()
}

func sortedTags(names map[int]string) []int {
	tags := make([]int, 0, len(names))
	for tag := range names {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return tags
}
