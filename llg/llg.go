/*package llg evaluates the uniaxial anisotropy field and the resulting
Landau-Lifshitz-Gilbert torque at a collection of magnetization directions.

Directions are stored as the columns of 3 x N matrices, one column per mesh
face. Input columns need not be normalized.
*/
package llg

import (
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/spinfpe/geom"
)

// Strategy selects how a torque calculation is executed. Every Strategy
// produces the same result up to floating point rounding.
type Strategy int

const (
	// Serial evaluates faces one at a time in a single loop.
	Serial Strategy = iota
	// Vectorized evaluates every face at once with whole-row operations.
	Vectorized
	// Parallel splits the faces into batches which are evaluated
	// concurrently.
	Parallel
)

var strategyNames = map[Strategy]string{
	Serial:     "Serial",
	Vectorized: "Vectorized",
	Parallel:   "Parallel",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a case-sensitive strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for s, sName := range strategyNames {
		if sName == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("Unrecognized torque strategy '%s'.", name)
}

// NumCores is the number of workers used by Parallel when Options.Workers is
// not positive.
var NumCores = runtime.NumCPU()

// Params are the material constants entering the torque calculation.
type Params struct {
	Gamma, Alpha float64 // Gyromagnetic factor and Gilbert damping.
	Msat, Ku2    float64 // Saturation magnetization and anisotropy constant.
	Axis         geom.Vec
}

// Options control the execution of Uniaxial.
type Options struct {
	Strategy Strategy
	Workers  int
	// ExcludeLast skips the final face, leaving its column of the output
	// zeroed.
	ExcludeLast bool
}

// Result holds the anisotropy field and torque at every face.
type Result struct {
	H, T  *mat.Dense
	Count int // Number of faces which were evaluated.
}

// Uniaxial computes the uniaxial anisotropy field
//
//     H = -2 Ku2 / Msat (m . u) u
//
// and the torque
//
//     T = -gamma (m x H + alpha m x (m x H))
//
// for the direction m of every column of centers. A *geom.DegenerateVectorError
// is returned if the axis or any evaluated column is too short to normalize.
// When several columns are degenerate, the lowest index is reported.
func Uniaxial(centers *mat.Dense, p Params, opt Options) (*Result, error) {
	u, err := p.Axis.Unit()
	if err != nil {
		return nil, err
	}

	n, err := faceCount(centers)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &Result{H: &mat.Dense{}, T: &mat.Dense{}}, nil
	}

	count := n
	if opt.ExcludeLast {
		count--
	}

	res := &Result{
		H:     mat.NewDense(3, n, nil),
		T:     mat.NewDense(3, n, nil),
		Count: count,
	}
	k := &kernel{
		u: u, scale: -2 * p.Ku2 / p.Msat, gamma: p.Gamma, alpha: p.Alpha,
	}
	k.bind(centers, res)

	switch opt.Strategy {
	case Serial:
		err = k.serial(0, count)
	case Vectorized:
		err = k.vectorized(count)
	case Parallel:
		err = k.parallel(count, opt.Workers)
	default:
		return nil, fmt.Errorf("Unrecognized torque strategy %d.", opt.Strategy)
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

// CrossAxis returns m x u for every column of centers, where m and u are the
// normalized column and axis. If excludeLast is set the final column is
// skipped and left zeroed, as with Options.ExcludeLast.
func CrossAxis(
	centers *mat.Dense, axis geom.Vec, excludeLast bool,
) (*mat.Dense, error) {
	u, err := axis.Unit()
	if err != nil {
		return nil, err
	}
	n, err := faceCount(centers)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &mat.Dense{}, nil
	}

	count := n
	if excludeLast {
		count--
	}

	out := mat.NewDense(3, n, nil)
	for i := 0; i < count; i++ {
		m, err := column(centers, i)
		if err != nil {
			return nil, err
		}
		mxu := m.Cross(&u)
		out.SetCol(i, mxu[:])
	}
	return out, nil
}

// AxisField returns coeff (r . u) u for every column r of centers, where u is
// the normalized axis. Unlike Uniaxial, the columns are not normalized.
func AxisField(centers *mat.Dense, axis geom.Vec, coeff float64) (*mat.Dense, error) {
	u, err := axis.Unit()
	if err != nil {
		return nil, err
	}
	n, err := faceCount(centers)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &mat.Dense{}, nil
	}

	// (u u^T) r for every column at once.
	uu := mat.NewDense(3, 3, nil)
	uu.Outer(coeff, mat.NewVecDense(3, u[:]), mat.NewVecDense(3, u[:]))
	out := mat.NewDense(3, n, nil)
	out.Mul(uu, centers)
	return out, nil
}

// faceCount returns the number of columns in centers, which must have three
// rows unless it is empty.
func faceCount(centers *mat.Dense) (int, error) {
	if centers == nil || centers.IsEmpty() {
		return 0, nil
	}
	r, c := centers.Dims()
	if r != 3 {
		return 0, fmt.Errorf("Face centers must have 3 rows, not %d.", r)
	}
	return c, nil
}

// column returns the normalized i-th column of centers.
func column(centers *mat.Dense, i int) (geom.Vec, error) {
	m := geom.Vec{centers.At(0, i), centers.At(1, i), centers.At(2, i)}
	if err := m.Normalize(); err != nil {
		err.(*geom.DegenerateVectorError).Index = i
		return m, err
	}
	return m, nil
}
