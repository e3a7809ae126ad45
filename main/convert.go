package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/spinfpe/io"
	"github.com/phil-mansfield/spinfpe/mesh"
)

var convertMeshCmd = &cobra.Command{
	Use:   "convert-mesh <config>",
	Short: "Convert a Gmsh mesh into triangle and tetrahedron XDMF files",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wrap := io.DefaultConvertMeshWrapper()
		con := &wrap.ConvertMesh
		if err := io.ReadConfig(args[0], wrap, con); err != nil {
			log.Fatal(err.Error())
		}

		fg := setupIO(cmd, &con.SharedConfig)
		defer fg.Close()

		if _, err := convertMeshMain(con); err != nil {
			log.Fatal(err.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(convertMeshCmd)
}

// convertMeshMain returns the names of the files that were written.
func convertMeshMain(con *io.ConvertMeshConfig) ([]string, error) {
	m, err := mesh.ReadMshFile(con.Input)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"file":   con.Input,
		"points": len(m.Points),
		"blocks": len(m.Blocks),
	}).Info("Read mesh.")

	targets := []mesh.Target{}
	if con.ValidTriangleOutput() {
		targets = append(targets, mesh.Target{
			Type: mesh.Triangle, File: con.TriangleOutput,
			Tagged: true, TagName: con.TagName,
		})
	}
	if con.ValidTetraOutput() {
		targets = append(targets, mesh.Target{
			Type: mesh.Tetra, File: con.TetraOutput,
		})
	}

	written, err := mesh.Convert(m, targets)
	if err != nil {
		return written, err
	}
	if len(written) == 0 {
		log.WithField("file", con.Input).Warn("No output files were written.")
	}
	return written, nil
}
