package field

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/phil-mansfield/spinfpe/geom"
)

// LinearNeighbors is the number of cells mixed together by first order
// sampling.
const LinearNeighbors = 4

var ErrEmptyField = errors.New("Cannot sample a field with no cells.")

// samplePoint is a cell center which remembers its index in the field.
type samplePoint struct {
	geom.Vec
	idx int
}

func (p samplePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(samplePoint)
	return p.Vec[d] - q.Vec[d]
}

func (p samplePoint) Dims() int { return 3 }

func (p samplePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(samplePoint)
	dx, dy, dz := p.Vec[0]-q.Vec[0], p.Vec[1]-q.Vec[1], p.Vec[2]-q.Vec[2]
	return dx*dx + dy*dy + dz*dz
}

type samplePoints []samplePoint

func (p samplePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p samplePoints) Len() int                      { return len(p) }
func (p samplePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p samplePoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(samplePlane{p, d}, kdtree.MedianOfMedians(samplePlane{p, d}))
}

type samplePlane struct {
	samplePoints
	kdtree.Dim
}

func (p samplePlane) Less(i, j int) bool {
	return p.samplePoints[i].Vec[p.Dim] < p.samplePoints[j].Vec[p.Dim]
}
func (p samplePlane) Swap(i, j int) {
	p.samplePoints[i], p.samplePoints[j] = p.samplePoints[j], p.samplePoints[i]
}
func (p samplePlane) Slice(start, end int) kdtree.SortSlicer {
	p.samplePoints = p.samplePoints[start:end]
	return p
}

// Sampler evaluates a Cell variable at arbitrary points in space.
type Sampler struct {
	cell *Cell
	tree *kdtree.Tree
}

// NewSampler creates a Sampler for the given variable. The variable's values
// may be changed after the Sampler is created, but its centers may not.
func NewSampler(c *Cell) (*Sampler, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, ErrEmptyField
	}

	pts := make(samplePoints, c.Len())
	for i := range pts {
		pts[i] = samplePoint{c.Centers[i], i}
	}

	return &Sampler{cell: c, tree: kdtree.New(pts, false)}, nil
}

// Nearest returns the index of the cell whose center is closest to x.
func (s *Sampler) Nearest(x geom.Vec) int {
	c, _ := s.tree.Nearest(samplePoint{x, -1})
	return c.(samplePoint).idx
}

// Sample returns the value of the variable at x. With order 0 the value of
// the nearest cell is returned. With higher orders the inverse-square
// distance weighted mean of the LinearNeighbors nearest cells is returned.
func (s *Sampler) Sample(x geom.Vec, order int) float64 {
	if order <= 0 {
		return s.cell.Values[s.Nearest(x)]
	}

	keep := kdtree.NewNKeeper(LinearNeighbors)
	s.tree.NearestSet(keep, samplePoint{x, -1})

	sum, norm := 0.0, 0.0
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		idx := cd.Comparable.(samplePoint).idx
		if cd.Dist == 0 {
			return s.cell.Values[idx]
		}
		w := 1 / cd.Dist
		sum += w * s.cell.Values[idx]
		norm += w
	}

	if norm == 0 {
		return math.NaN()
	}
	return sum / norm
}

// SampleSpherical returns the value of the variable at the point on the unit
// sphere with polar angle theta and azimuthal angle rho.
func (s *Sampler) SampleSpherical(theta, rho float64, order int) float64 {
	return s.Sample(geom.FromSpherical(theta, rho), order)
}

// SphericalIntegrand returns sin(theta) * f(theta, rho), the integrand of a
// surface integral of the variable over the unit sphere.
func (s *Sampler) SphericalIntegrand(order int) func(theta, rho float64) float64 {
	return func(theta, rho float64) float64 {
		return geom.SphereJacobian(theta) * s.SampleSpherical(theta, rho, order)
	}
}
