package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dataflows/flowgrid/pkg/model"
	"github.com/dataflows/flowgrid/pkg/sim"
)

// newPreviewCmd creates the preview command.
func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <spec>",
		Short: "Render the computed grid as ANSI tiles in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			s, _, err := simulate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderGrid(s, nil))
			b := s.Boundaries()
			logger.Debug("rendered preview", "grid", fmt.Sprintf("%dx%d", b.Width, b.Height))
			return nil
		},
	}
	return cmd
}

// simulate loads a spec file and computes its layout, applying the
// config's routing knobs. Semantic errors are logged, not fatal.
func simulate(path string) (*sim.Simulator, *model.System, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	root, verrs, err := model.LoadYAML(data)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range verrs {
		fmt.Fprintf(os.Stderr, "%s %s\n", StyleWarning.Render(e.Message), StyleDim.Render(e.Path))
	}

	s := sim.New(root)
	if cfg.TurnPenalty != 0 {
		s.TurnPenalty = cfg.TurnPenalty
	}
	if cfg.HeuristicWeight != 0 {
		s.HeuristicWeight = cfg.HeuristicWeight
	}
	if err := s.Compute(); err != nil {
		return nil, nil, err
	}
	return s, root, nil
}
