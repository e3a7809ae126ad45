package io

import (
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/spinfpe"
	"github.com/phil-mansfield/spinfpe/geom"
	"github.com/phil-mansfield/spinfpe/llg"
	"github.com/phil-mansfield/spinfpe/mesh"
)

const (
	ExampleTorqueFile = `[Torque]

#######################
# Required Parameters #
#######################

# Where the face directions come from. Must be one of:
# Msh    - triangle centers of the Gmsh file given by Input.
# Table  - the first three columns of the text file given by Input.
# Sphere - triangle centers of a subdivided octahedron, see Subdivisions.
# Grid   - face centers of a regular grid, see Dx, Nx, etc.
Source = Sphere

# Text file which the results will be written to. Each line contains the
# x, y, z location of a face followed by the three components of each output
# quantity.
Output = path/to/torque.txt

#######################
# Optional Parameters #
#######################

# Input file, required if Source is Msh or Table.
# Input = path/to/sphere.msh

# What to compute at every face. Must be one of:
# Torque    - the anisotropy field H and the LLG torque T.
# CrossAxis - m x u, where m is the face direction and u is the axis.
# AxisField - Coeff * (r . u) u, where r is the (unnormalized) face location.
# Quantity = Torque
# Coeff = 10

# How the torque is evaluated. Must be one of [ Serial | Vectorized |
# Parallel ]. Parallel runs on Threads goroutines, or on every core if Threads
# is not set.
# Strategy = Parallel
# Threads = 4

# Skips the final face, which is left zeroed in the output. Applies to the
# Torque and CrossAxis quantities only.
# ExcludeLast = false

# Resolution of the Sphere source. The sphere has 8 * 4^Subdivisions faces.
# Subdivisions = 5

# Geometry of the Grid source.
# Dx = 0.1
# Dy = 0.1
# Dz = 0.1
# Nx = 10
# Ny = 10
# Nz = 10

# Material parameters, in SI units. The defaults describe a 2 nm thick, 25 nm
# radius disk with a z-aligned easy axis.
# Gamma = 2.2128e5
# Alpha = 0.01
# Msat = 1050e3
# Ku2 = 800e3
# AxisX = 0
# AxisY = 0
# AxisZ = 1

# A plot of the output quantity's magnitude against polar angle. The image
# format is taken from the file extension. If Pyplot is set, the plot is drawn
# by matplotlib, which must be installed.
# PlotFile = path/to/torque.png
# Pyplot = false

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out
# Verbose = false`

	ExampleInitFieldFile = `[InitField]

#######################
# Required Parameters #
#######################

# Snapshot file which the field will be written to.
Output = path/to/phi.dat

#######################
# Optional Parameters #
#######################

# Gmsh file whose triangle centers are used as cells. If not set, a subdivided
# octahedron with 8 * 4^Subdivisions triangles is used instead.
# Mesh = path/to/sphere.msh
# Subdivisions = 6

# Name and uniform value of the field. The default value normalizes the field
# over the unit sphere.
# Name = phi
# Value = 0.0795774715459477

# The field is sampled at this point after it is created.
# ProbeX = 0
# ProbeY = 1
# ProbeZ = 0

# Material parameters, used to report the diffusion coefficient.
# Gamma = 2.2128e5
# Alpha = 0.01
# Temperature = 300
# Msat = 1050e3
# Volume = 3.9269908169872416e-24

# ProfileFile = prof.out
# LogFile = log.out
# Verbose = false`

	ExampleIntegrateFile = `[Integrate]

#######################
# Required Parameters #
#######################

# Snapshot file written by InitField.
Input = path/to/phi.dat

#######################
# Optional Parameters #
#######################

# Interpolation order used when sampling the field. 0 uses the nearest cell
# and 1 mixes the nearest four cells.
# Order = 1

# The field is sampled at this point before integrating.
# ProbeX = 0
# ProbeY = 1
# ProbeZ = 0

# Integration tolerances. The number of quadrature points per dimension starts
# at MinOrder and doubles until successive estimates agree to within
# max(AbsTol, RelTol * |I|) or MaxOrder is reached.
# AbsTol = 1e-13
# RelTol = 1e-5
# MinOrder = 8
# MaxOrder = 256

# Number of goroutines used to evaluate the integrals. Every core is used if
# Threads is not set.
# Threads = 4

# ProfileFile = prof.out
# LogFile = log.out
# Verbose = false`

	ExampleConvertMeshFile = `[ConvertMesh]

#######################
# Required Parameters #
#######################

# Gmsh (version 2 ASCII) file to convert.
Input = path/to/sphere.msh

#######################
# Optional Parameters #
#######################

# XDMF files for the triangle and tetrahedron cells. At least one must be set.
# Triangles are written along with their physical tags.
TriangleOutput = path/to/sphere_mf.xdmf
TetraOutput = path/to/sphere_mesh.xdmf

# Name of the attribute storing the physical tags.
# TagName = name_to_read

# ProfileFile = prof.out
# LogFile = log.out
# Verbose = false`
)

// SharedConfig contains the variables which every mode accepts.
type SharedConfig struct {
	// Optional
	LogFile, ProfileFile string
	Verbose              bool
	Threads              int
}

func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}
func (con *SharedConfig) ValidThreads() bool {
	return con.Threads >= 0
}

// Workers returns the number of goroutines a run should use. A Threads value
// of zero means every core.
func (con *SharedConfig) Workers() int {
	if con.Threads > 0 {
		return con.Threads
	}
	return llg.NumCores
}

// ParticleConfig contains the material parameters of the particle.
type ParticleConfig struct {
	Gamma, Alpha, Temperature float64
	Msat, Volume, Ku2         float64
	AxisX, AxisY, AxisZ       float64
}

// DefaultParticleConfig returns a ParticleConfig set to
// spinfpe.DefaultParams().
func DefaultParticleConfig() ParticleConfig {
	p := spinfpe.DefaultParams()
	return ParticleConfig{
		Gamma: p.Gamma, Alpha: p.Alpha, Temperature: p.Temperature,
		Msat: p.Msat, Volume: p.Volume, Ku2: p.Ku2,
		AxisX: p.Axis[0], AxisY: p.Axis[1], AxisZ: p.Axis[2],
	}
}

// Params converts con into the parameters used by the solver.
func (con *ParticleConfig) Params() spinfpe.Params {
	return spinfpe.Params{
		Gamma: con.Gamma, Alpha: con.Alpha, Temperature: con.Temperature,
		Msat: con.Msat, Volume: con.Volume, Ku2: con.Ku2,
		Axis: geom.Vec{con.AxisX, con.AxisY, con.AxisZ},
	}
}

func (con *ParticleConfig) ValidGamma() bool {
	return con.Gamma > 0
}
func (con *ParticleConfig) ValidAlpha() bool {
	return con.Alpha >= 0
}
func (con *ParticleConfig) ValidTemperature() bool {
	return con.Temperature > 0
}
func (con *ParticleConfig) ValidMsat() bool {
	return con.Msat > 0
}
func (con *ParticleConfig) ValidVolume() bool {
	return con.Volume > 0
}
func (con *ParticleConfig) ValidAxis() bool {
	axis := geom.Vec{con.AxisX, con.AxisY, con.AxisZ}
	norm := axis.Norm()
	return norm >= geom.Eps && !math.IsInf(norm, 0)
}

func (con *ParticleConfig) checkLLG() error {
	if !con.ValidGamma() {
		return fmt.Errorf("Invalid 'Gamma' value, %g.", con.Gamma)
	} else if !con.ValidAlpha() {
		return fmt.Errorf("Invalid 'Alpha' value, %g.", con.Alpha)
	} else if !con.ValidMsat() {
		return fmt.Errorf("Invalid 'Msat' value, %g.", con.Msat)
	} else if !con.ValidAxis() {
		return con.axisError()
	}
	return nil
}

func (con *ParticleConfig) axisError() error {
	return fmt.Errorf(
		"Invalid anisotropy axis (%g, %g, %g).",
		con.AxisX, con.AxisY, con.AxisZ,
	)
}

// Sources of face directions for Torque mode.
const (
	MshSource    = "Msh"
	TableSource  = "Table"
	SphereSource = "Sphere"
	GridSource   = "Grid"
)

// Quantities computed by Torque mode.
const (
	TorqueQuantity    = "Torque"
	CrossAxisQuantity = "CrossAxis"
	AxisFieldQuantity = "AxisField"
)

type TorqueConfig struct {
	SharedConfig
	ParticleConfig

	// Required
	Source, Output string

	// Optional
	Input        string
	Quantity     string
	Coeff        float64
	Strategy     string
	ExcludeLast  bool
	Subdivisions int
	Dx, Dy, Dz   float64
	Nx, Ny, Nz   int
	PlotFile     string
	Pyplot       bool
}

type TorqueWrapper struct {
	Torque TorqueConfig
}

func DefaultTorqueWrapper() *TorqueWrapper {
	con := TorqueConfig{
		ParticleConfig: DefaultParticleConfig(),
		Quantity:       TorqueQuantity,
		Coeff:          10,
		Strategy:       llg.Serial.String(),
		Subdivisions:   5,
	}
	con.Dx, con.Dy, con.Dz = 0.1, 0.1, 0.1
	con.Nx, con.Ny, con.Nz = 10, 10, 10
	return &TorqueWrapper{con}
}

func (con *TorqueConfig) ValidSource() bool {
	switch con.Source {
	case MshSource, TableSource, SphereSource, GridSource:
		return true
	}
	return false
}
func (con *TorqueConfig) ValidInput() bool {
	if con.Source == MshSource || con.Source == TableSource {
		return con.Input != ""
	}
	return true
}
func (con *TorqueConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *TorqueConfig) ValidQuantity() bool {
	switch con.Quantity {
	case TorqueQuantity, CrossAxisQuantity, AxisFieldQuantity:
		return true
	}
	return false
}
func (con *TorqueConfig) ValidStrategy() bool {
	_, err := llg.ParseStrategy(con.Strategy)
	return err == nil
}
func (con *TorqueConfig) ValidSubdivisions() bool {
	return con.Subdivisions >= 0 && con.Subdivisions <= mesh.MaxSubdivisions
}
func (con *TorqueConfig) ValidPlotFile() bool {
	return con.PlotFile != ""
}

// Grid returns the grid used by the Grid source.
func (con *TorqueConfig) Grid() *mesh.Grid3D {
	return &mesh.Grid3D{
		Dx: con.Dx, Dy: con.Dy, Dz: con.Dz,
		Nx: con.Nx, Ny: con.Ny, Nz: con.Nz,
	}
}

// CheckInit returns an error describing the first invalid variable in con.
func (con *TorqueConfig) CheckInit() error {
	if !con.ValidSource() {
		return fmt.Errorf(
			"Invalid/non-existent 'Source' value, '%s'. Must be one of "+
				"[ %s ].", con.Source, strings.Join([]string{
				MshSource, TableSource, SphereSource, GridSource,
			}, " | "),
		)
	} else if !con.ValidInput() {
		return fmt.Errorf("'Input' must be set when 'Source' is %s.",
			con.Source)
	} else if !con.ValidOutput() {
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	} else if !con.ValidQuantity() {
		return fmt.Errorf("Invalid 'Quantity' value, '%s'.", con.Quantity)
	} else if !con.ValidStrategy() {
		return fmt.Errorf("Invalid 'Strategy' value, '%s'.", con.Strategy)
	} else if !con.ValidSubdivisions() {
		return fmt.Errorf("Invalid 'Subdivisions' value, %d.",
			con.Subdivisions)
	} else if !con.ValidThreads() {
		return fmt.Errorf("Invalid 'Threads' value, %d.", con.Threads)
	}

	if con.ExcludeLast && con.Quantity == AxisFieldQuantity {
		return fmt.Errorf("'ExcludeLast' cannot be used with Quantity = %s.",
			AxisFieldQuantity)
	}

	if con.Source == GridSource {
		if err := con.Grid().Check(); err != nil {
			return err
		}
	}

	if con.Quantity == TorqueQuantity {
		return con.checkLLG()
	} else if !con.ValidAxis() {
		return con.axisError()
	}
	return nil
}

type InitFieldConfig struct {
	SharedConfig
	ParticleConfig

	// Required
	Output string

	// Optional
	Mesh                   string
	Subdivisions           int
	Name                   string
	Value                  float64
	ProbeX, ProbeY, ProbeZ float64
}

type InitFieldWrapper struct {
	InitField InitFieldConfig
}

func DefaultInitFieldWrapper() *InitFieldWrapper {
	con := InitFieldConfig{
		ParticleConfig: DefaultParticleConfig(),
		Subdivisions:   6,
		Name:           "phi",
		Value:          0.25 / math.Pi,
		ProbeY:         1,
	}
	return &InitFieldWrapper{con}
}

func (con *InitFieldConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *InitFieldConfig) ValidMesh() bool {
	return con.Mesh != ""
}
func (con *InitFieldConfig) ValidSubdivisions() bool {
	return con.Subdivisions >= 0 && con.Subdivisions <= mesh.MaxSubdivisions
}
func (con *InitFieldConfig) ValidName() bool {
	return con.Name != ""
}

// Probe returns the point at which the field is sampled.
func (con *InitFieldConfig) Probe() geom.Vec {
	return geom.Vec{con.ProbeX, con.ProbeY, con.ProbeZ}
}

// CheckInit returns an error describing the first invalid variable in con.
func (con *InitFieldConfig) CheckInit() error {
	if !con.ValidOutput() {
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	} else if !con.ValidSubdivisions() {
		return fmt.Errorf("Invalid 'Subdivisions' value, %d.",
			con.Subdivisions)
	} else if !con.ValidName() {
		return fmt.Errorf("Invalid 'Name' value.")
	} else if !con.ValidTemperature() {
		return fmt.Errorf("Invalid 'Temperature' value, %g.", con.Temperature)
	} else if !con.ValidVolume() {
		return fmt.Errorf("Invalid 'Volume' value, %g.", con.Volume)
	}
	return con.checkLLG()
}

type IntegrateConfig struct {
	SharedConfig

	// Required
	Input string

	// Optional
	Order                  int
	ProbeX, ProbeY, ProbeZ float64
	AbsTol, RelTol         float64
	MinOrder, MaxOrder     int
}

type IntegrateWrapper struct {
	Integrate IntegrateConfig
}

func DefaultIntegrateWrapper() *IntegrateWrapper {
	con := IntegrateConfig{
		Order:    1,
		ProbeY:   1,
		AbsTol:   1e-13,
		RelTol:   1e-5,
		MinOrder: 8,
		MaxOrder: 256,
	}
	return &IntegrateWrapper{con}
}

func (con *IntegrateConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *IntegrateConfig) ValidOrder() bool {
	return con.Order == 0 || con.Order == 1
}
func (con *IntegrateConfig) ValidTolerance() bool {
	return con.AbsTol >= 0 && con.RelTol >= 0 &&
		con.MinOrder > 0 && con.MaxOrder >= 2*con.MinOrder
}

// Probe returns the point at which the field is sampled.
func (con *IntegrateConfig) Probe() geom.Vec {
	return geom.Vec{con.ProbeX, con.ProbeY, con.ProbeZ}
}

// CheckInit returns an error describing the first invalid variable in con.
func (con *IntegrateConfig) CheckInit() error {
	if !con.ValidInput() {
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	} else if !con.ValidOrder() {
		return fmt.Errorf("Invalid 'Order' value, %d.", con.Order)
	} else if !con.ValidTolerance() {
		return fmt.Errorf(
			"Invalid tolerance: AbsTol = %g, RelTol = %g, MinOrder = %d, "+
				"MaxOrder = %d.", con.AbsTol, con.RelTol,
			con.MinOrder, con.MaxOrder,
		)
	} else if !con.ValidThreads() {
		return fmt.Errorf("Invalid 'Threads' value, %d.", con.Threads)
	}
	return nil
}

type ConvertMeshConfig struct {
	SharedConfig

	// Required
	Input string

	// Optional
	TriangleOutput, TetraOutput string
	TagName                     string
}

type ConvertMeshWrapper struct {
	ConvertMesh ConvertMeshConfig
}

func DefaultConvertMeshWrapper() *ConvertMeshWrapper {
	return &ConvertMeshWrapper{ConvertMeshConfig{TagName: mesh.DefaultTagName}}
}

func (con *ConvertMeshConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *ConvertMeshConfig) ValidTriangleOutput() bool {
	return con.TriangleOutput != ""
}
func (con *ConvertMeshConfig) ValidTetraOutput() bool {
	return con.TetraOutput != ""
}

// CheckInit returns an error describing the first invalid variable in con.
func (con *ConvertMeshConfig) CheckInit() error {
	if !con.ValidInput() {
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	} else if !con.ValidTriangleOutput() && !con.ValidTetraOutput() {
		return fmt.Errorf(
			"At least one of 'TriangleOutput' and 'TetraOutput' must be set.",
		)
	}
	return nil
}
