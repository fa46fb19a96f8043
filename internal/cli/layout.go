package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dataflows/flowgrid/pkg/sim"
)

// newLayoutCmd creates the layout command.
func newLayoutCmd() *cobra.Command {
	var (
		output  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout <spec>",
		Short: "Compute a layout and emit it as JSON",
		Long: `Layout runs the full pipeline - parse, hydrate, simulate - and writes
the resulting tile grid, boundaries and link routes as JSON.

Results are cached under the hash of the document and routing options;
use --refresh to bypass the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			runner := newRunner(ctx, cfg, logger)
			defer runner.Close()

			prog := newProgress(logger)
			result, err := runner.Execute(ctx, data, pipelineOptions(cfg, refresh, logger))
			if err != nil {
				return err
			}
			prog.done("Computed layout")

			for _, e := range result.Errors {
				logger.Warn("validation", "message", e.Message, "path", e.Path)
			}

			if output != "" {
				return sim.WriteLayoutFile(result.Layout, output)
			}
			return sim.WriteLayout(result.Layout, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write layout JSON to a file instead of stdout")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the layout cache")
	return cmd
}
