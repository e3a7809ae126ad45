package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/spinfpe/io"
)

var exampleFiles = map[string]string{
	"Torque":      io.ExampleTorqueFile,
	"InitField":   io.ExampleInitFieldFile,
	"Integrate":   io.ExampleIntegrateFile,
	"ConvertMesh": io.ExampleConvertMeshFile,
}

var exampleCmd = &cobra.Command{
	Use:   "example-config <mode>",
	Short: "Print an annotated example config file",
	Long: `Print an annotated example config file for one of the modes Torque,
InitField, Integrate or ConvertMesh.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, ok := exampleFiles[args[0]]
		if !ok {
			return fmt.Errorf("Unrecognized mode '%s'. Valid modes are %s.",
				args[0], strings.Join(exampleModes(), ", "))
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func exampleModes() []string {
	return []string{"Torque", "InitField", "Integrate", "ConvertMesh"}
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}
