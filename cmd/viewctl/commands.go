package main

import (
	"github.com/spf13/cobra"
)

// buildBuildCmd creates the "build" command that projects a tape's raw
// events into a validated View and prints a summary.
func buildBuildCmd(configPath *string) *cobra.Command {
	var (
		tapePath string
		strict   bool
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Project a recorded tape's raw events into a validated View",
		Long: `Build reads a viewtape fixture's raw event sequence, runs it through the
validation pipeline, and prints the resulting View's summary: how many
events were dropped, whether a condensation request is outstanding, and
the most recent summary text if one has been applied.

With --out, the validated sequence is also written back out as a new
tape fixture for inspection or replay.`,
		Example: `  # Build and summarize
  viewctl build --tape testdata/tapes/run1.json

  # Build in strict mode and save the result
  viewctl build --tape testdata/tapes/run1.json --strict --out testdata/tapes/run1.validated.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), *configPath, tapePath, strict, outPath)
		},
	}

	cmd.Flags().StringVarP(&tapePath, "tape", "t", "", "Path to a viewtape JSON fixture (required)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject unmatched tool calls instead of filtering them")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the validated sequence to this tape path")
	_ = cmd.MarkFlagRequired("tape")

	return cmd
}

// buildIndicesCmd creates the "indices" command that reports a raw
// sequence's manipulation indices.
func buildIndicesCmd(configPath *string) *cobra.Command {
	var (
		tapePath  string
		threshold int
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "indices",
		Short: "List a tape's manipulation-safe indices",
		Long: `Indices computes the manipulation index set over a tape's raw event
sequence: the positions where user-facing edits (deletion, insertion,
rollback) may be applied without splitting a tool-call batch or a
thinking-triggered tool loop.

With --threshold, only the smallest index at or above the threshold is
printed (the value NextIndex would return), rather than the full set.`,
		Example: `  # Full index set
  viewctl indices --tape testdata/tapes/run1.json

  # Next safe index at or after position 4, clipping to the end if none
  viewctl indices --tape testdata/tapes/run1.json --threshold 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndices(cmd.Context(), tapePath, threshold, strict)
		},
	}

	cmd.Flags().StringVarP(&tapePath, "tape", "t", "", "Path to a viewtape JSON fixture (required)")
	cmd.Flags().IntVar(&threshold, "threshold", -1, "Print only the next safe index >= threshold")
	cmd.Flags().BoolVar(&strict, "strict", false, "Require an index strictly greater than the threshold instead of >=")
	_ = cmd.MarkFlagRequired("tape")

	return cmd
}

// buildServeCmd creates the "serve" command that starts the dev inspector.
func buildServeCmd(configPath *string) *cobra.Command {
	var (
		tapePath string
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dev inspector, streaming a tape's build activity over WebSocket",
		Long: `Serve loads a tape, replays its build lifecycle (start, validate, compute
indices, finish) through the dev inspector's event stream, and keeps the
WebSocket endpoint open for clients to connect and watch.

This is a development tool. It is not meant to be exposed outside a
developer's machine.`,
		Example: `  # Serve on the default bind address
  viewctl serve --tape testdata/tapes/run1.json

  # Serve on a custom address
  viewctl serve --tape testdata/tapes/run1.json --addr 0.0.0.0:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, tapePath, addr)
		},
	}

	cmd.Flags().StringVarP(&tapePath, "tape", "t", "", "Path to a viewtape JSON fixture (required)")
	cmd.Flags().StringVar(&addr, "addr", "", "Override the configured bind address")
	_ = cmd.MarkFlagRequired("tape")

	return cmd
}
