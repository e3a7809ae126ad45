/*package quadrature integrates functions of the polar and azimuthal angles
over regions of the unit sphere using nested Gauss-Legendre rules.
*/
package quadrature

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate/quad"
)

// ErrNotConverged is the cause of errors returned when successive estimates
// of an integral never agree to the requested tolerance.
var ErrNotConverged = errors.New("integral did not converge")

// Bounds is a rectangle in (theta, rho) space. T0 and T1 bound the polar
// angle and R0 and R1 bound the azimuthal angle.
type Bounds struct {
	T0, T1, R0, R1 float64
}

var (
	FullSphere      = Bounds{0, math.Pi, 0, 2 * math.Pi}
	NorthHemisphere = Bounds{0, math.Pi / 2, 0, 2 * math.Pi}
	SouthHemisphere = Bounds{math.Pi / 2, math.Pi, 0, 2 * math.Pi}
)

// Tolerance controls the refinement performed by Sphere. The number of
// points per dimension starts at MinOrder and doubles until two successive
// estimates differ by no more than max(Abs, Rel * |I|) or the next order
// would exceed MaxOrder. Concurrent is the number of goroutines used to
// evaluate the outer integral; zero evaluates it serially.
type Tolerance struct {
	Abs, Rel           float64
	MinOrder, MaxOrder int
	Concurrent         int
}

// DefaultTolerance is sufficient for smooth integrands.
var DefaultTolerance = Tolerance{
	Abs: 1e-10, Rel: 1e-8, MinOrder: 8, MaxOrder: 512,
}

func (tol *Tolerance) check() error {
	switch {
	case tol.Abs < 0 || tol.Rel < 0:
		return errors.Errorf("negative tolerance (%g, %g)", tol.Abs, tol.Rel)
	case tol.MinOrder < 1:
		return errors.Errorf("MinOrder is %d", tol.MinOrder)
	case tol.MaxOrder < 2*tol.MinOrder:
		return errors.Errorf(
			"MaxOrder %d does not allow refinement past MinOrder %d",
			tol.MaxOrder, tol.MinOrder,
		)
	case tol.Concurrent < 0:
		return errors.Errorf("Concurrent is %d", tol.Concurrent)
	}
	return nil
}

func (b *Bounds) check() error {
	for _, x := range []float64{b.T0, b.T1, b.R0, b.R1} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Errorf("non-finite integration bounds %v", *b)
		}
	}
	if b.T1 < b.T0 || b.R1 < b.R0 {
		return errors.Errorf("reversed integration bounds %v", *b)
	}
	return nil
}

// Fixed integrates f over b with an order-point Gauss-Legendre rule in each
// dimension. f must be safe for concurrent use if concurrent is positive.
func Fixed(
	f func(theta, rho float64) float64, b Bounds, order, concurrent int,
) float64 {
	inner := func(theta float64) float64 {
		g := func(rho float64) float64 { return f(theta, rho) }
		return quad.Fixed(g, b.R0, b.R1, order, quad.Legendre{}, 0)
	}
	return quad.Fixed(inner, b.T0, b.T1, order, quad.Legendre{}, concurrent)
}

// Sphere integrates f over b, refining until tol is met. The absolute
// difference between the last two estimates is returned as an error
// estimate. If tol is never met, the final estimate is returned along with
// an error whose cause is ErrNotConverged.
//
// f is integrated as given: callers integrating over the surface of the
// sphere must include the sin(theta) Jacobian themselves.
func Sphere(
	f func(theta, rho float64) float64, b Bounds, tol Tolerance,
) (value, errEst float64, err error) {
	if err := b.check(); err != nil {
		return 0, 0, err
	}
	if err := tol.check(); err != nil {
		return 0, 0, err
	}

	prev := Fixed(f, b, tol.MinOrder, tol.Concurrent)
	order := tol.MinOrder
	for next := 2 * order; next <= tol.MaxOrder; next *= 2 {
		order = next
		value = Fixed(f, b, order, tol.Concurrent)
		errEst = math.Abs(value - prev)
		if errEst <= math.Max(tol.Abs, tol.Rel*math.Abs(value)) {
			return value, errEst, nil
		}
		prev = value
	}

	return value, errEst, errors.Wrapf(
		ErrNotConverged, "estimates differ by %g at order %d", errEst, order,
	)
}
