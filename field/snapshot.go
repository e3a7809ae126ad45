package field

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/phil-mansfield/spinfpe/geom"
)

const (
	// SnapshotVersion is the version of the format written by WriteCell.
	SnapshotVersion int64 = 1
	// maxNameLen bounds the length of stored variable names.
	maxNameLen = 1 << 16
)

var end = binary.LittleEndian

/*
The binary format used for cell snapshots is as follows:
    |-- 1 --||-- 2 --||-- 3 --||-- ... 4 ... --||-- ... 5 ... --||-- 6 --|

    1 - (int32) Flag indicating the endianness of the file. 0 indicates a big
        endian byte ordering and -1 indicates a little endian byte order.
    2 - (int32) Size of a SnapshotHeader struct. Should be checked for
        consistency.
    3 - (SnapshotHeader) Header containing meta-information about the
        variable.
    4 - ([]byte) Name of the variable, NameLen bytes long.
    5 - ([][3]float64) Contiguous block of x, y, z cell centers.
    6 - ([]float64) Contiguous block of cell values.
*/
type SnapshotHeader struct {
	Version int64
	Count   int64 // Number of cells
	NameLen int64 // Length of the variable name in bytes
}

func endiannessFlag(order binary.ByteOrder) int32 {
	if order == binary.BigEndian {
		return 0
	}
	return -1
}

// WriteCell writes a Cell variable to wr.
func WriteCell(wr io.Writer, c *Cell) error {
	if err := c.Check(); err != nil {
		return err
	}
	if len(c.Name) > maxNameLen {
		return errors.Errorf("variable name is %d bytes long", len(c.Name))
	}

	hd := SnapshotHeader{
		Version: SnapshotVersion,
		Count:   int64(c.Len()),
		NameLen: int64(len(c.Name)),
	}

	bw := bufio.NewWriter(wr)
	for _, x := range []interface{}{
		endiannessFlag(end), int32(binary.Size(hd)), &hd, []byte(c.Name),
		c.Centers, c.Values,
	} {
		if err := binary.Write(bw, end, x); err != nil {
			return errors.Wrap(err, "writing snapshot")
		}
	}
	return bw.Flush()
}

// ReadCell reads a Cell variable written by WriteCell. Files of either
// endianness can be read.
func ReadCell(rd io.Reader) (*Cell, error) {
	br := bufio.NewReader(rd)

	var flag int32
	if err := binary.Read(br, end, &flag); err != nil {
		return nil, errors.Wrap(err, "reading endianness flag")
	}
	var order binary.ByteOrder
	switch flag {
	case -1:
		order = binary.LittleEndian
	case 0:
		order = binary.BigEndian
	default:
		return nil, errors.Errorf("invalid endianness flag %d", flag)
	}

	hd := SnapshotHeader{}
	var size int32
	if err := binary.Read(br, order, &size); err != nil {
		return nil, errors.Wrap(err, "reading header size")
	}
	if int(size) != binary.Size(hd) {
		return nil, errors.Errorf(
			"header size is %d, but expected %d", size, binary.Size(hd),
		)
	}
	if err := binary.Read(br, order, &hd); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if hd.Version != SnapshotVersion {
		return nil, errors.Errorf("unsupported snapshot version %d", hd.Version)
	}
	if hd.Count < 0 || hd.NameLen < 0 || hd.NameLen > maxNameLen {
		return nil, errors.Errorf(
			"corrupt header: count %d, name length %d", hd.Count, hd.NameLen,
		)
	}

	name := make([]byte, hd.NameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, errors.Wrap(err, "reading variable name")
	}

	// Read in chunks so a corrupt count fails on EOF instead of allocating
	// an enormous buffer up front.
	c := &Cell{Name: string(name)}
	const chunk = 1 << 16
	for n := int64(0); n < hd.Count; n += chunk {
		m := hd.Count - n
		if m > chunk {
			m = chunk
		}
		buf := make([]geom.Vec, m)
		if err := binary.Read(br, order, buf); err != nil {
			return nil, errors.Wrap(err, "reading cell centers")
		}
		c.Centers = append(c.Centers, buf...)
	}
	for n := int64(0); n < hd.Count; n += chunk {
		m := hd.Count - n
		if m > chunk {
			m = chunk
		}
		buf := make([]float64, m)
		if err := binary.Read(br, order, buf); err != nil {
			return nil, errors.Wrap(err, "reading cell values")
		}
		c.Values = append(c.Values, buf...)
	}
	if c.Centers == nil {
		c.Centers, c.Values = []geom.Vec{}, []float64{}
	}

	if _, err := br.ReadByte(); err != io.EOF {
		return nil, errors.New("trailing data after cell values")
	}

	return c, nil
}

// WriteCellFile writes a Cell variable to the file with the given name.
func WriteCellFile(fname string, c *Cell) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := WriteCell(f, c); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing '%s'", fname)
	}
	return f.Close()
}

// ReadCellFile reads a Cell variable from the file with the given name.
func ReadCellFile(fname string) (*Cell, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := ReadCell(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", fname)
	}
	return c, nil
}
