package llg

import (
	"math"
	"sync"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/spinfpe/geom"
)

// kernel holds the constants and the raw rows of the input and output
// matrices used by every strategy.
type kernel struct {
	u                   geom.Vec
	scale, gamma, alpha float64

	xs, ys, zs []float64
	h, t       [3][]float64
}

func (k *kernel) bind(centers *mat.Dense, res *Result) {
	k.xs = centers.RawRowView(0)
	k.ys = centers.RawRowView(1)
	k.zs = centers.RawRowView(2)
	for j := 0; j < 3; j++ {
		k.h[j] = res.H.RawRowView(j)
		k.t[j] = res.T.RawRowView(j)
	}
}

// faces evaluates faces [lo, hi) one at a time.
func (k *kernel) faces(lo, hi int) *geom.DegenerateVectorError {
	u0, u1, u2 := k.u[0], k.u[1], k.u[2]
	for i := lo; i < hi; i++ {
		x, y, z := k.xs[i], k.ys[i], k.zs[i]
		norm := math.Sqrt(x*x + y*y + z*z)
		if norm < geom.Eps || math.IsNaN(norm) {
			return &geom.DegenerateVectorError{
				Index: i, Vec: geom.Vec{x, y, z}, Norm: norm,
			}
		}
		mx, my, mz := x/norm, y/norm, z/norm

		hMag := k.scale * (mx*u0 + my*u1 + mz*u2)
		hx, hy, hz := hMag*u0, hMag*u1, hMag*u2

		// m x H
		ax := my*hz - mz*hy
		ay := mz*hx - mx*hz
		az := mx*hy - my*hx
		// m x (m x H)
		bx := my*az - mz*ay
		by := mz*ax - mx*az
		bz := mx*ay - my*ax

		k.h[0][i], k.h[1][i], k.h[2][i] = hx, hy, hz
		k.t[0][i] = -k.gamma * (ax + k.alpha*bx)
		k.t[1][i] = -k.gamma * (ay + k.alpha*by)
		k.t[2][i] = -k.gamma * (az + k.alpha*bz)
	}
	return nil
}

func (k *kernel) serial(lo, hi int) error {
	if err := k.faces(lo, hi); err != nil {
		return err
	}
	return nil
}

// parallel evaluates the first n faces in batches spread across workers
// goroutines. Each batch writes to its own columns of the output.
func (k *kernel) parallel(n, workers int) error {
	if workers <= 0 {
		workers = NumCores
	}
	if workers > n {
		workers = n
	}
	if n == 0 {
		return nil
	}

	var (
		mtx   sync.Mutex
		first *geom.DegenerateVectorError
	)
	parallel.Range(0, n, workers, func(low, high int) {
		err := k.faces(low, high)
		if err == nil {
			return
		}
		mtx.Lock()
		if first == nil || err.Index < first.Index {
			first = err
		}
		mtx.Unlock()
	})

	if first != nil {
		return first
	}
	return nil
}

// vectorized evaluates the first n faces with whole-row operations.
func (k *kernel) vectorized(n int) error {
	if n == 0 {
		return nil
	}
	xs, ys, zs := k.xs[:n], k.ys[:n], k.zs[:n]
	tmp := make([]float64, n)

	norm := make([]float64, n)
	floats.MulTo(norm, xs, xs)
	floats.Add(norm, floats.MulTo(tmp, ys, ys))
	floats.Add(norm, floats.MulTo(tmp, zs, zs))
	for i := range norm {
		norm[i] = math.Sqrt(norm[i])
		if norm[i] < geom.Eps || math.IsNaN(norm[i]) {
			return &geom.DegenerateVectorError{
				Index: i, Vec: geom.Vec{xs[i], ys[i], zs[i]}, Norm: norm[i],
			}
		}
	}

	m := [3][]float64{
		floats.DivTo(make([]float64, n), xs, norm),
		floats.DivTo(make([]float64, n), ys, norm),
		floats.DivTo(make([]float64, n), zs, norm),
	}

	hMag := floats.ScaleTo(make([]float64, n), k.u[0], m[0])
	floats.AddScaled(hMag, k.u[1], m[1])
	floats.AddScaled(hMag, k.u[2], m[2])
	floats.Scale(k.scale, hMag)

	var h, mxH, mxmxH [3][]float64
	for j := 0; j < 3; j++ {
		h[j] = k.h[j][:n]
		floats.ScaleTo(h[j], k.u[j], hMag)
		mxH[j] = make([]float64, n)
		mxmxH[j] = make([]float64, n)
	}
	crossRows(m, h, mxH, tmp)
	crossRows(m, mxH, mxmxH, tmp)

	for j := 0; j < 3; j++ {
		t := k.t[j][:n]
		floats.AddScaledTo(t, mxH[j], k.alpha, mxmxH[j])
		floats.Scale(-k.gamma, t)
	}

	return nil
}

// crossRows writes a x b to out column-wise. out must not alias a or b.
func crossRows(a, b, out [3][]float64, tmp []float64) {
	for j := 0; j < 3; j++ {
		j1, j2 := (j+1)%3, (j+2)%3
		floats.MulTo(out[j], a[j1], b[j2])
		floats.Sub(out[j], floats.MulTo(tmp, a[j2], b[j1]))
	}
}
