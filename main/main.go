package main

import (
	"os"
	"runtime/pprof"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/spinfpe/io"
)

// FileGroup holds the log and profiling files opened for a single run.
type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "spinfpe",
	Short: "Tools for the Fokker-Planck form of the LLG equation on the unit sphere",
	Long: `spinfpe evaluates uniaxial anisotropy torques on the unit sphere,
creates and integrates probability density fields defined on sphere meshes, and
converts Gmsh meshes to XDMF.

Every mode except example-config is controlled by a configuration file. Run
'spinfpe example-config <mode>' to see an annotated example.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntP(
		"threads", "t", 0,
		"Number of goroutines to use. Overrides the config's 'Threads' value.",
	)
	rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false, "Log debugging information.",
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupIO applies command line overrides to con and sets up logging and
// profiling. The returned FileGroup must be closed when the run finishes.
func setupIO(cmd *cobra.Command, con *io.SharedConfig) *FileGroup {
	if cmd.Flags().Changed("threads") {
		con.Threads, _ = cmd.Flags().GetInt("threads")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		con.Verbose = true
	}
	if !con.ValidThreads() {
		log.Fatalf("Invalid thread count, %d.", con.Threads)
	}

	var err error
	fg := new(FileGroup)

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if con.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}
