package spinfpe

import (
	"github.com/phil-mansfield/spinfpe/geom"
)

// Params describes a single-domain magnetic particle and its environment.
type Params struct {
	Gamma       float64 // Gyromagnetic factor, gamma * mu0 [m/(A s)]
	Alpha       float64 // Gilbert damping constant
	Temperature float64 // [K]
	Msat        float64 // Saturation magnetization [A/m]
	Volume      float64 // Magnetic volume of the particle [m^3]

	Ku2  float64  // Uniaxial anisotropy constant [J/m^3]
	Axis geom.Vec // Uniaxial anisotropy axis, need not be normalized
}
