/*package spinfpe contains the physical constants and material parameters used
when solving the Fokker-Planck formulation of the monodomain
Landau-Lifshitz-Gilbert equation on the surface of the unit sphere.

With only uniaxial anisotropy and an initially uniform probability density,
the solution relaxes to a distribution with two peaks, one at each pole
defined by the anisotropy axis.
*/
package spinfpe

import (
	"math"

	"github.com/phil-mansfield/spinfpe/geom"
	"github.com/phil-mansfield/spinfpe/llg"
)

const (
	KBoltzmann = 1.38064852e-23 // [J/K]
	Mu0        = math.Pi * 4.0e-7 // [T m/A]
)

// DefaultParams returns the parameters of a 2 nm thick, 25 nm radius
// cylindrical particle at room temperature with a z-aligned easy axis.
func DefaultParams() Params {
	return Params{
		Gamma:       2.2128e5,
		Alpha:       0.01,
		Temperature: 300,
		Msat:        1050e3,
		Volume:      2.0e-9 * (25e-9 * 25e-9) * math.Pi,
		Ku2:         800e3,
		Axis:        geom.Vec{0, 0, 1},
	}
}

// Diffusion returns the diffusion coefficient of the Fokker-Planck equation,
// alpha gamma kB T / ((1 + alpha) Msat V).
func (p *Params) Diffusion() float64 {
	return p.Alpha * p.Gamma * KBoltzmann * p.Temperature /
		((1 + p.Alpha) * p.Msat * p.Volume)
}

// AnisotropyScale returns the prefactor -2 Ku2 / Msat of the uniaxial
// anisotropy field.
func (p *Params) AnisotropyScale() float64 {
	return -2.0 * p.Ku2 / p.Msat
}

// Barrier returns the ratio of the anisotropy energy barrier to the thermal
// energy, Ku2 V / (kB T).
func (p *Params) Barrier() float64 {
	return p.Ku2 * p.Volume / (KBoltzmann * p.Temperature)
}

// LLG returns the subset of p needed to evaluate anisotropy torques.
func (p *Params) LLG() llg.Params {
	return llg.Params{
		Gamma: p.Gamma, Alpha: p.Alpha, Msat: p.Msat, Ku2: p.Ku2, Axis: p.Axis,
	}
}
