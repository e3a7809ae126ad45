package mesh

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/phil-mansfield/spinfpe/geom"
)

// xdmfTopology maps cell types to XDMF topology names.
var xdmfTopology = map[CellType]string{
	Vertex:     "Polyvertex",
	Line:       "Polyline",
	Triangle:   "Triangle",
	Quad:       "Quadrilateral",
	Tetra:      "Tetrahedron",
	Hexahedron: "Hexahedron",
}

type xdmfFile struct {
	XMLName xml.Name   `xml:"Xdmf"`
	Version string     `xml:"Version,attr"`
	Domain  xdmfDomain `xml:"Domain"`
}

type xdmfDomain struct {
	Grid xdmfGrid `xml:"Grid"`
}

type xdmfGrid struct {
	Name       string          `xml:"Name,attr"`
	Geometry   xdmfGeometry    `xml:"Geometry"`
	Topology   xdmfTopologyEl  `xml:"Topology"`
	Attributes []xdmfAttribute `xml:"Attribute"`
}

type xdmfGeometry struct {
	GeometryType string       `xml:"GeometryType,attr"`
	Data         xdmfDataItem `xml:"DataItem"`
}

type xdmfTopologyEl struct {
	TopologyType     string       `xml:"TopologyType,attr"`
	NumberOfElements int          `xml:"NumberOfElements,attr"`
	NodesPerElement  int          `xml:"NodesPerElement,attr,omitempty"`
	Data             xdmfDataItem `xml:"DataItem"`
}

type xdmfAttribute struct {
	Name          string       `xml:"Name,attr"`
	AttributeType string       `xml:"AttributeType,attr"`
	Center        string       `xml:"Center,attr"`
	Data          xdmfDataItem `xml:"DataItem"`
}

type xdmfDataItem struct {
	DataType   string `xml:"DataType,attr"`
	Dimensions string `xml:"Dimensions,attr"`
	Format     string `xml:"Format,attr"`
	Precision  int    `xml:"Precision,attr"`
	Text       string `xml:",chardata"`
}

// CellData is an integer attribute attached to each cell of a block.
type CellData struct {
	Name   string
	Values []int
}

// WriteXDMF writes the points of m together with a single cell block as an
// XDMF 3 grid with inline XML data. If data is non-nil it is written as a
// cell-centered scalar attribute.
func WriteXDMF(w io.Writer, m *Mesh, block *CellBlock, data *CellData) error {
	topo, ok := xdmfTopology[block.Type]
	if !ok {
		return errors.Errorf("cell type '%s' has no XDMF topology", block.Type)
	}
	if data != nil && len(data.Values) != len(block.Cells) {
		return errors.Errorf(
			"cell data '%s' has %d values for %d cells",
			data.Name, len(data.Values), len(block.Cells),
		)
	}

	nodes := block.Type.Nodes()
	f := xdmfFile{Version: "3.0"}
	grid := &f.Domain.Grid
	grid.Name = "Grid"

	sb := &strings.Builder{}
	for i := range m.Points {
		fmt.Fprintf(sb, "\n%.17g %.17g %.17g",
			m.Points[i][0], m.Points[i][1], m.Points[i][2])
	}
	sb.WriteString("\n")
	grid.Geometry = xdmfGeometry{
		GeometryType: "XYZ",
		Data: xdmfDataItem{
			DataType: "Float", Format: "XML", Precision: 8,
			Dimensions: fmt.Sprintf("%d 3", len(m.Points)),
			Text:       sb.String(),
		},
	}

	sb.Reset()
	for _, cell := range block.Cells {
		sb.WriteString("\n")
		for j, p := range cell {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(strconv.Itoa(p))
		}
	}
	sb.WriteString("\n")
	grid.Topology = xdmfTopologyEl{
		TopologyType:     topo,
		NumberOfElements: len(block.Cells),
		Data: xdmfDataItem{
			DataType: "Int", Format: "XML", Precision: 8,
			Dimensions: fmt.Sprintf("%d %d", len(block.Cells), nodes),
			Text:       sb.String(),
		},
	}
	if block.Type == Line || block.Type == Vertex {
		grid.Topology.NodesPerElement = nodes
	}

	if data != nil {
		sb.Reset()
		for _, v := range data.Values {
			sb.WriteString("\n" + strconv.Itoa(v))
		}
		sb.WriteString("\n")
		grid.Attributes = append(grid.Attributes, xdmfAttribute{
			Name: data.Name, AttributeType: "Scalar", Center: "Cell",
			Data: xdmfDataItem{
				DataType: "Int", Format: "XML", Precision: 8,
				Dimensions: strconv.Itoa(len(data.Values)),
				Text:       sb.String(),
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&f); err != nil {
		return errors.Wrap(err, "encoding xdmf")
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteXDMFFile writes an XDMF file with the given name. See WriteXDMF.
func WriteXDMFFile(
	fname string, m *Mesh, block *CellBlock, data *CellData,
) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}

	if err := WriteXDMF(f, m, block, data); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing '%s'", fname)
	}
	return f.Close()
}

// ReadXDMF reads a single-grid XDMF file with inline XML data, like those
// written by WriteXDMF. Integer cell attributes are returned in data, keyed
// by name.
func ReadXDMF(r io.Reader) (m *Mesh, data map[string][]int, err error) {
	f := xdmfFile{}
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, nil, errors.Wrap(err, "decoding xdmf")
	}
	grid := &f.Domain.Grid

	if g := grid.Geometry; g.GeometryType != "XYZ" || g.Data.Format != "XML" {
		return nil, nil, errors.Errorf(
			"unsupported geometry type '%s' with format '%s'",
			g.GeometryType, g.Data.Format,
		)
	}
	coords, err := parseFloats(grid.Geometry.Data.Text)
	if err != nil {
		return nil, nil, err
	}
	if len(coords)%3 != 0 {
		return nil, nil, errors.Errorf(
			"geometry has %d values, not a multiple of 3", len(coords),
		)
	}

	m = &Mesh{Points: make([]geom.Vec, len(coords)/3)}
	for i := range m.Points {
		m.Points[i] = geom.Vec{coords[3*i], coords[3*i+1], coords[3*i+2]}
	}

	var typ CellType
	for t, name := range xdmfTopology {
		if strings.EqualFold(name, grid.Topology.TopologyType) {
			typ = t
		}
	}
	if typ == "" {
		return nil, nil, errors.Errorf(
			"unsupported topology '%s'", grid.Topology.TopologyType,
		)
	}

	conn, err := parseInts(grid.Topology.Data.Text)
	if err != nil {
		return nil, nil, err
	}
	n := typ.Nodes()
	if len(conn)%n != 0 {
		return nil, nil, errors.Errorf(
			"topology has %d values, not a multiple of %d", len(conn), n,
		)
	}
	block := CellBlock{Type: typ, Cells: make([][]int, len(conn)/n)}
	for i := range block.Cells {
		block.Cells[i] = conn[i*n : (i+1)*n]
	}
	m.Blocks = []CellBlock{block}

	data = map[string][]int{}
	for _, attr := range grid.Attributes {
		if attr.Center != "Cell" || attr.Data.DataType != "Int" {
			continue
		}
		vals, err := parseInts(attr.Data.Text)
		if err != nil {
			return nil, nil, err
		}
		data[attr.Name] = vals
	}

	return m, data, m.Check()
}

// ReadXDMFFile reads the XDMF file with the given name. See ReadXDMF.
func ReadXDMFFile(fname string) (*Mesh, map[string][]int, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	m, data, err := ReadXDMF(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading '%s'", fname)
	}
	return m, data, nil
}

func parseFloats(text string) ([]float64, error) {
	fs := strings.Fields(text)
	xs := make([]float64, len(fs))
	for i := range fs {
		x, err := strconv.ParseFloat(fs[i], 64)
		if err != nil {
			return nil, errors.Wrap(err, "parsing xdmf data")
		}
		xs[i] = x
	}
	return xs, nil
}

func parseInts(text string) ([]int, error) {
	fs := strings.Fields(text)
	xs := make([]int, len(fs))
	for i := range fs {
		x, err := strconv.Atoi(fs[i])
		if err != nil {
			return nil, errors.Wrap(err, "parsing xdmf data")
		}
		xs[i] = x
	}
	return xs, nil
}
