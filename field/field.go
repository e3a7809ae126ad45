/*package field contains scalar and vector variables defined over mesh cells
and faces, along with routines for sampling and storing them.
*/
package field

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/spinfpe/geom"
	"github.com/phil-mansfield/spinfpe/mesh"
)

// Cell is a scalar variable with one value per mesh cell, sampled at the
// cell centers.
type Cell struct {
	Name    string
	Centers []geom.Vec
	Values  []float64
}

// NewCell creates a Cell variable at the given centers with a uniform value.
func NewCell(name string, centers []geom.Vec, value float64) *Cell {
	c := &Cell{Name: name, Centers: centers}
	c.Values = make([]float64, len(centers))
	for i := range c.Values {
		c.Values[i] = value
	}
	return c
}

// Len returns the number of cells.
func (c *Cell) Len() int { return len(c.Centers) }

// Check returns an error if the number of values and centers disagree.
func (c *Cell) Check() error {
	if len(c.Values) != len(c.Centers) {
		return fmt.Errorf("Cell variable '%s' has %d values but %d centers.",
			c.Name, len(c.Values), len(c.Centers))
	}
	return nil
}

// Face is a vector variable with one 3-vector per mesh face, stored as the
// columns of a 3 x N matrix.
type Face struct {
	Name    string
	Centers []geom.Vec
	Values  *mat.Dense
}

// NewFace creates a Face variable at the given centers with a uniform value.
func NewFace(name string, centers []geom.Vec, value geom.Vec) *Face {
	f := &Face{Name: name, Centers: centers}
	vs := make([]geom.Vec, len(centers))
	for i := range vs {
		vs[i] = value
	}
	f.Values = mesh.Matrix(vs)
	return f
}

// CenterFace creates a Face variable whose value at every face is the location
// of that face. This is the unnormalized magnetization direction sampled at
// the faces of a sphere mesh.
func CenterFace(name string, centers []geom.Vec) *Face {
	return &Face{Name: name, Centers: centers, Values: mesh.Matrix(centers)}
}

// Len returns the number of faces.
func (f *Face) Len() int { return len(f.Centers) }

// SetValue replaces the values of the variable. vals must be 3 x f.Len().
func (f *Face) SetValue(vals mat.Matrix) error {
	r, c := vals.Dims()
	if r != 3 || c != f.Len() {
		return fmt.Errorf(
			"Face variable '%s' needs a 3 x %d value, but was given %d x %d.",
			f.Name, f.Len(), r, c,
		)
	}
	f.Values = mat.DenseCopyOf(vals)
	return nil
}

// At returns the value at face i.
func (f *Face) At(i int) geom.Vec {
	return geom.Vec{f.Values.At(0, i), f.Values.At(1, i), f.Values.At(2, i)}
}

// Dot returns the per-face inner product of f with a constant vector.
func (f *Face) Dot(u *geom.Vec) []float64 {
	out := make([]float64, f.Len())
	for i := range out {
		v := f.At(i)
		out[i] = v.Dot(u)
	}
	return out
}
