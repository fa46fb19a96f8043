// Package cli implements the flowgrid command-line interface.
//
// This package provides commands for validating architecture
// specifications, computing layouts, previewing grids in the terminal,
// playing flow animations, and serving the HTTP API. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - validate: Check a specification structurally and semantically
//   - layout: Compute a layout and emit it as JSON
//   - preview: Render the computed grid as ANSI tiles in the terminal
//   - play: Step a flow animation over the preview
//   - serve: Start the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the flowgrid CLI and returns an error if any command fails.
// This is the main entry point for the CLI application. The context
// carries cancellation (typically from signal handling in main).
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "flowgrid",
		Short:        "Flowgrid lays out architecture diagrams on a tile grid",
		Long:         `Flowgrid renders declarative descriptions of distributed architectures - nested systems, links, and animated flows - into fully laid-out, addressable 2D grids.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("flowgrid %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newPlayCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
