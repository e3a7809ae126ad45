package io

import (
	"fmt"
	"sort"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/phil-mansfield/spinfpe/geom"
)

// PolarProfile returns the polar angle of every face center and the norm of
// the corresponding column of vals, sorted by polar angle.
func PolarProfile(centers []geom.Vec, vals *mat.Dense) (thetas, mags []float64) {
	thetas = make([]float64, len(centers))
	mags = make([]float64, len(centers))
	for i := range centers {
		thetas[i], _ = centers[i].Spherical()
		v := geom.Vec{vals.At(0, i), vals.At(1, i), vals.At(2, i)}
		mags[i] = v.Norm()
	}

	sort.Sort(&profile{thetas, mags})
	return thetas, mags
}

type profile struct{ xs, ys []float64 }

func (p *profile) Len() int           { return len(p.xs) }
func (p *profile) Less(i, j int) bool { return p.xs[i] < p.xs[j] }
func (p *profile) Swap(i, j int) {
	p.xs[i], p.xs[j] = p.xs[j], p.xs[i]
	p.ys[i], p.ys[j] = p.ys[j], p.ys[i]
}

// PlotProfile writes a scatter plot of ys against xs to fname. The image
// format is taken from the file extension.
func PlotProfile(fname, title, xLabel, yLabel string, xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("Plotting %d x values against %d y values.",
			len(xs), len(ys))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "creating scatter plot")
	}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(sc)
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 6*vg.Inch, fname); err != nil {
		return errors.Wrapf(err, "saving plot to '%s'", fname)
	}
	return nil
}

// PyplotProfile is PlotProfile rendered through matplotlib. It requires a
// python installation with matplotlib on the PATH.
func PyplotProfile(fname, title, xLabel, yLabel string, xs, ys []float64) {
	plt.Reset()
	plt.Figure(plt.FigSize(8, 6))
	plt.Plot(xs, ys, "ok")
	plt.Title(title)
	plt.XLabel(xLabel, plt.FontSize(16))
	plt.YLabel(yLabel, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	plt.Execute()
}
