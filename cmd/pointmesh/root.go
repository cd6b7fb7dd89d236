package main

import (
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/pointmesh/internal/config"
	"github.com/banshee-data/pointmesh/internal/service"
	"github.com/banshee-data/pointmesh/internal/surface/pipeline"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pointmesh",
	Short: "Point cloud to convex mesh reconstruction",
	Long: `pointmesh smooths a 3D point cloud with moving least squares and
triangulates the convex hull of the result. It runs as a gRPC service
(serve), calls one (call), or reconstructs a file locally (run).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(os.Stderr, verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON config file (defaults built in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics and per-stage timing")

	rootCmd.AddCommand(serveCmd, callCmd, runCmd, versionCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging routes the ops stream to w and, when verbose, the diag and
// trace streams too.
func setupLogging(w io.Writer, verbose bool) {
	var diag io.Writer
	if verbose {
		diag = w
	}
	pipeline.SetLogWriters(w, diag, diag)
	service.SetLogWriters(w, diag, diag)
}

// loadConfig returns the config named by --config, or built-in defaults.
func loadConfig() (*config.ReconstructionConfig, error) {
	if configPath == "" {
		return config.DefaultReconstructionConfig(), nil
	}
	return config.LoadReconstructionConfig(configPath)
}
