/*package geom contains the small amount of three dimensional vector algebra
needed to evaluate LLG torques on the unit sphere.
*/
package geom

import (
	"fmt"
	"math"
)

// Eps is the smallest norm a vector can have and still be normalized.
const Eps = 1e-12

// Vec is a three dimensional vector.
type Vec [3]float64

// DegenerateVectorError is returned when a vector which must be normalized
// has a norm smaller than Eps. Index identifies the element the vector
// belongs to, or is negative if the vector is not associated with an element.
type DegenerateVectorError struct {
	Index int
	Vec   Vec
	Norm  float64
}

func (err *DegenerateVectorError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf(
			"Cannot normalize vector %v with norm %g.", err.Vec, err.Norm,
		)
	}
	return fmt.Sprintf(
		"Cannot normalize vector %v of element %d with norm %g.",
		err.Vec, err.Index, err.Norm,
	)
}

// Dot computes the inner product of v and u.
func (v *Vec) Dot(u *Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// CrossAt computes v x u and writes it to out. out may alias v or u.
func (v *Vec) CrossAt(u, out *Vec) {
	x := v[1]*u[2] - v[2]*u[1]
	y := v[2]*u[0] - v[0]*u[2]
	z := v[0]*u[1] - v[1]*u[0]
	out[0], out[1], out[2] = x, y, z
}

// Cross returns v x u.
func (v *Vec) Cross(u *Vec) Vec {
	out := Vec{}
	v.CrossAt(u, &out)
	return out
}

// Norm returns the Euclidean norm of v.
func (v *Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale multiplies every component of v by k in place.
func (v *Vec) Scale(k float64) {
	v[0] *= k
	v[1] *= k
	v[2] *= k
}

// ScaleAt writes k * v to out.
func (v *Vec) ScaleAt(k float64, out *Vec) {
	out[0], out[1], out[2] = k*v[0], k*v[1], k*v[2]
}

// Add adds u to v in place.
func (v *Vec) Add(u *Vec) {
	v[0] += u[0]
	v[1] += u[1]
	v[2] += u[2]
}

// Sub subtracts u from v in place.
func (v *Vec) Sub(u *Vec) {
	v[0] -= u[0]
	v[1] -= u[1]
	v[2] -= u[2]
}

// Normalize scales v to unit length in place. If the norm of v is below Eps,
// v is left untouched and a *DegenerateVectorError with Index -1 is returned.
func (v *Vec) Normalize() error {
	norm := v.Norm()
	if norm < Eps || math.IsNaN(norm) {
		return &DegenerateVectorError{Index: -1, Vec: *v, Norm: norm}
	}
	v.Scale(1 / norm)
	return nil
}

// Unit returns a normalized copy of v.
func (v *Vec) Unit() (Vec, error) {
	u := *v
	return u, u.Normalize()
}

// Distance returns the Euclidean distance between v and u.
func (v *Vec) Distance(u *Vec) float64 {
	dx, dy, dz := v[0]-u[0], v[1]-u[1], v[2]-u[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
