package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/spinfpe/geom"
)

// Column is a named vector quantity with one 3-vector per face, stored as
// the columns of a 3 x N matrix.
type Column struct {
	Name   string
	Values *mat.Dense
}

var axisNames = [3]string{"x", "y", "z"}

/*
WriteColumns writes a whitespace-separated text table with one line per face.
The first line is a comment naming the columns:

    # x y z Hx Hy Hz Tx Ty Tz

The first three columns are the face centers and every Column adds three more.
*/
func WriteColumns(w io.Writer, centers []geom.Vec, cols []Column) error {
	for _, col := range cols {
		if col.Values.IsEmpty() && len(centers) == 0 {
			continue
		}
		r, c := col.Values.Dims()
		if r != 3 || c != len(centers) {
			return fmt.Errorf(
				"Column '%s' is %d x %d, but there are %d faces.",
				col.Name, r, c, len(centers),
			)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "# x y z")
	for _, col := range cols {
		for _, ax := range axisNames {
			fmt.Fprintf(bw, " %s%s", col.Name, ax)
		}
	}
	fmt.Fprintln(bw)

	for i := range centers {
		fmt.Fprintf(bw, "%.10g %.10g %.10g",
			centers[i][0], centers[i][1], centers[i][2])
		for _, col := range cols {
			for j := 0; j < 3; j++ {
				fmt.Fprintf(bw, " %.10g", col.Values.At(j, i))
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return errors.Wrap(err, "writing columns")
		}
	}

	return bw.Flush()
}

// WriteColumnsFile writes a text table to the file with the given name.
func WriteColumnsFile(fname string, centers []geom.Vec, cols []Column) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := WriteColumns(f, centers, cols); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing '%s'", fname)
	}
	return f.Close()
}
