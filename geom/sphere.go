package geom

import (
	"math"
)

// FromSpherical returns the point on the unit sphere with polar angle theta
// (measured from +z) and azimuthal angle rho (measured from +x in the
// xy-plane). Both angles are in radians.
func FromSpherical(theta, rho float64) Vec {
	sinT, cosT := math.Sincos(theta)
	sinR, cosR := math.Sincos(rho)
	return Vec{sinT * cosR, sinT * sinR, cosT}
}

// Spherical returns the polar angle theta in [0, pi] and the azimuthal angle
// rho in [0, 2 pi) of v. The norm of v is ignored. The zero vector maps to
// (0, 0).
func (v *Vec) Spherical() (theta, rho float64) {
	if v[0] == 0 && v[1] == 0 && v[2] == 0 {
		return 0, 0
	}

	theta = math.Atan2(math.Hypot(v[0], v[1]), v[2])

	rho = math.Atan2(v[1], v[0])
	if rho < 0 {
		rho += 2 * math.Pi
	}
	if rho >= 2*math.Pi {
		rho -= 2 * math.Pi
	}
	return theta, rho
}

// SphereJacobian is the area element sin(theta) of the unit sphere in
// spherical coordinates.
func SphereJacobian(theta float64) float64 {
	return math.Sin(theta)
}
