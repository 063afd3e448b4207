// Package main provides the CLI entry point for viewctl, the command-line
// front end for the View engine.
//
// viewctl projects raw agent-event logs into well-formed views, reports
// their manipulation indices, and runs a dev inspector server for watching
// a build live.
//
// # Basic Usage
//
// Build a view from a recorded tape and print a summary of it:
//
//	viewctl build --tape run.json
//
// Print a tape's next manipulation index at or after position 3:
//
//	viewctl indices --tape run.json --threshold 3
//
// Run the dev inspector, replaying a tape's events over WebSocket:
//
//	viewctl serve --tape run.json --addr 127.0.0.1:8787
//
// # Environment Variables
//
//   - VIEWCTL_CONFIG: path to configuration file (default: none, built-in defaults apply)
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "viewctl",
		Short:   "Build and inspect View-engine sequences",
		Version: version,
	}
	rootCmd.SetVersionTemplate("viewctl {{.Version}}\n")

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("VIEWCTL_CONFIG"),
		"Path to YAML/JSON5 configuration file")

	rootCmd.AddCommand(
		buildBuildCmd(&configPath),
		buildIndicesCmd(&configPath),
		buildServeCmd(&configPath),
	)
	return rootCmd
}
