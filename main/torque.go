package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/spinfpe/field"
	"github.com/phil-mansfield/spinfpe/geom"
	"github.com/phil-mansfield/spinfpe/io"
	"github.com/phil-mansfield/spinfpe/llg"
	"github.com/phil-mansfield/spinfpe/mesh"
)

var torqueCmd = &cobra.Command{
	Use:   "torque <config>",
	Short: "Evaluate the uniaxial anisotropy field and LLG torque at mesh faces",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wrap := io.DefaultTorqueWrapper()
		con := &wrap.Torque
		if err := io.ReadConfig(args[0], wrap, con); err != nil {
			log.Fatal(err.Error())
		}

		fg := setupIO(cmd, &con.SharedConfig)
		defer fg.Close()

		if err := torqueMain(con); err != nil {
			log.Fatal(err.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(torqueCmd)
}

func torqueMain(con *io.TorqueConfig) error {
	centers, err := torqueCenters(con)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"source": con.Source,
		"faces":  len(centers),
	}).Info("Loaded face centers.")

	mVar := field.CenterFace("m", centers)
	m := mVar.Values
	p := con.Params()

	var cols []io.Column
	switch con.Quantity {
	case io.TorqueQuantity:
		strategy, err := llg.ParseStrategy(con.Strategy)
		if err != nil {
			return err
		}
		opt := llg.Options{
			Strategy: strategy, Workers: con.Workers(),
			ExcludeLast: con.ExcludeLast,
		}

		start := time.Now()
		res, err := llg.Uniaxial(m, p.LLG(), opt)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"strategy": strategy,
			"faces":    res.Count,
			"elapsed":  time.Since(start),
		}).Info("Computed torques.")
		log.WithFields(log.Fields{
			"D":       p.Diffusion(),
			"barrier": p.Barrier(),
		}).Debug("Particle parameters.")
		if u, err := p.Axis.Unit(); err == nil && mVar.Len() > 0 {
			log.WithField("mean", meanSquare(mVar.Dot(&u))).Debug(
				"Mean squared axis projection of m.",
			)
		}

		cols = []io.Column{{Name: "H", Values: res.H}, {Name: "T", Values: res.T}}
	case io.CrossAxisQuantity:
		out, err := llg.CrossAxis(m, p.Axis, con.ExcludeLast)
		if err != nil {
			return err
		}
		cols = []io.Column{{Name: "mxu", Values: out}}
	case io.AxisFieldQuantity:
		out, err := llg.AxisField(m, p.Axis, con.Coeff)
		if err != nil {
			return err
		}
		cols = []io.Column{{Name: "Heff", Values: out}}
	default:
		return fmt.Errorf("Unrecognized quantity '%s'.", con.Quantity)
	}

	logNorms(cols)
	if err := io.WriteColumnsFile(con.Output, centers, cols); err != nil {
		return err
	}
	log.WithField("file", con.Output).Info("Wrote output table.")

	if con.ValidPlotFile() && len(centers) > 0 {
		last := cols[len(cols)-1]
		if err := plotColumn(con, centers, last); err != nil {
			return err
		}
		log.WithField("file", con.PlotFile).Info("Wrote plot.")
	}

	return nil
}

func meanSquare(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x * x
	}
	return sum / float64(len(xs))
}

// torqueCenters returns the face centers named by con.Source. Volume meshes
// contribute the unique faces of their tetrahedra, surface meshes their
// triangles.
func torqueCenters(con *io.TorqueConfig) ([]geom.Vec, error) {
	switch con.Source {
	case io.MshSource:
		m, err := mesh.ReadMshFile(con.Input)
		if err != nil {
			return nil, err
		}
		if m.CellCount(mesh.Tetra) > 0 {
			return m.FaceCenters(mesh.Tetra), nil
		} else if m.CellCount(mesh.Triangle) == 0 {
			return nil, fmt.Errorf(
				"Mesh '%s' has no triangles or tetrahedra.", con.Input,
			)
		}
		return m.CellCenters(mesh.Triangle), nil
	case io.TableSource:
		return mesh.ReadCenters(con.Input)
	case io.SphereSource:
		m, err := mesh.UnitSphere(con.Subdivisions)
		if err != nil {
			return nil, err
		}
		return m.CellCenters(mesh.Triangle), nil
	case io.GridSource:
		g := con.Grid()
		if err := g.Check(); err != nil {
			return nil, err
		}
		return g.FaceCenters(), nil
	}
	return nil, fmt.Errorf("Unrecognized source '%s'.", con.Source)
}

func plotColumn(con *io.TorqueConfig, centers []geom.Vec, col io.Column) error {
	thetas, mags := io.PolarProfile(centers, col.Values)
	title := fmt.Sprintf("|%s| for Ku2 = %g J/m^3", col.Name, con.Ku2)
	xLabel, yLabel := "theta", fmt.Sprintf("|%s|", col.Name)

	if con.Pyplot {
		io.PyplotProfile(con.PlotFile, title, xLabel, yLabel, thetas, mags)
		return nil
	}
	return io.PlotProfile(con.PlotFile, title, xLabel, yLabel, thetas, mags)
}

func logNorms(cols []io.Column) {
	for _, col := range cols {
		if col.Values.IsEmpty() {
			continue
		}
		min, max := mesh.NormRange(mesh.Vecs(col.Values))
		log.WithFields(log.Fields{
			"column": col.Name, "min": min, "max": max,
		}).Debug("Column norm range.")
	}
}
