package main

import (
	"fmt"
	goio "io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/spinfpe/field"
	"github.com/phil-mansfield/spinfpe/io"
	"github.com/phil-mansfield/spinfpe/mesh"
	"github.com/phil-mansfield/spinfpe/quadrature"
)

var initFieldCmd = &cobra.Command{
	Use:   "init-field <config>",
	Short: "Create a uniform probability density on a sphere mesh",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wrap := io.DefaultInitFieldWrapper()
		con := &wrap.InitField
		if err := io.ReadConfig(args[0], wrap, con); err != nil {
			log.Fatal(err.Error())
		}

		fg := setupIO(cmd, &con.SharedConfig)
		defer fg.Close()

		if err := initFieldMain(con, os.Stdout); err != nil {
			log.Fatal(err.Error())
		}
	},
}

var integrateCmd = &cobra.Command{
	Use:   "integrate <config>",
	Short: "Sample a stored density and integrate it over the unit sphere",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wrap := io.DefaultIntegrateWrapper()
		con := &wrap.Integrate
		if err := io.ReadConfig(args[0], wrap, con); err != nil {
			log.Fatal(err.Error())
		}

		fg := setupIO(cmd, &con.SharedConfig)
		defer fg.Close()

		if err := integrateMain(con, os.Stdout); err != nil {
			log.Fatal(err.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(initFieldCmd)
	rootCmd.AddCommand(integrateCmd)
}

func initFieldMain(con *io.InitFieldConfig, out goio.Writer) error {
	var (
		m   *mesh.Mesh
		err error
	)
	if con.ValidMesh() {
		m, err = mesh.ReadMshFile(con.Mesh)
	} else {
		m, err = mesh.UnitSphere(con.Subdivisions)
	}
	if err != nil {
		return err
	}

	centers := m.CellCenters(mesh.Triangle)
	if len(centers) == 0 {
		return fmt.Errorf("Mesh has no triangles to define '%s' on.", con.Name)
	}
	min, max := mesh.NormRange(centers)
	log.WithFields(log.Fields{
		"points":    len(m.Points),
		"triangles": len(centers),
		"rMin":      min,
		"rMax":      max,
	}).Info("Loaded sphere mesh.")

	c := field.NewCell(con.Name, centers, con.Value)
	s, err := field.NewSampler(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s%v = %.10g\n", con.Name, con.Probe(), s.Sample(con.Probe(), 1))

	p := con.Params()
	log.WithFields(log.Fields{
		"D":       p.Diffusion(),
		"barrier": p.Barrier(),
	}).Info("Particle parameters.")

	if err := field.WriteCellFile(con.Output, c); err != nil {
		return err
	}
	log.WithField("file", con.Output).Info("Wrote density snapshot.")
	return nil
}

func integrateMain(con *io.IntegrateConfig, out goio.Writer) error {
	c, err := field.ReadCellFile(con.Input)
	if err != nil {
		return err
	}
	s, err := field.NewSampler(c)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"name":  c.Name,
		"cells": c.Len(),
	}).Info("Read density snapshot.")

	fmt.Fprintf(out, "%s%v = %.10g\n", c.Name, con.Probe(), s.Sample(con.Probe(), con.Order))

	tol := quadrature.Tolerance{
		Abs: con.AbsTol, Rel: con.RelTol,
		MinOrder: con.MinOrder, MaxOrder: con.MaxOrder,
		Concurrent: con.Workers(),
	}
	f := s.SphericalIntegrand(con.Order)

	regions := []struct {
		name string
		b    quadrature.Bounds
	}{
		{"sphere", quadrature.FullSphere},
		{"north", quadrature.NorthHemisphere},
		{"south", quadrature.SouthHemisphere},
	}
	for _, r := range regions {
		start := time.Now()
		val, errEst, err := quadrature.Sphere(f, r.b, tol)
		if errors.Cause(err) == quadrature.ErrNotConverged {
			log.WithField("region", r.name).Warn(err.Error())
		} else if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"region":  r.name,
			"errEst":  errEst,
			"elapsed": time.Since(start),
		}).Debug("Integrated density.")
		fmt.Fprintf(out, "integral over %s = %.10g\n", r.name, val)
	}
	return nil
}
