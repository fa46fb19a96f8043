package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dataflows/flowgrid/pkg/model"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "validate <spec>",
		Short: "Check a specification structurally and semantically",
		Long: `Validate parses a YAML/JSON specification, checks it against the
document schema, hydrates it, and reports semantic problems: unresolvable
link endpoints, links to non-leaf containers, self-references, and
duplicate links.

Structural failures abort with a non-zero exit code. Semantic errors are
listed individually; the command exits non-zero when any are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			_, verrs, err := model.LoadYAML(data)
			if err != nil {
				return err
			}

			if jsonOut {
				if verrs == nil {
					verrs = []model.ValidationError{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(verrs); err != nil {
					return err
				}
			} else {
				for _, e := range verrs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
						StyleError.Render(e.Message), StyleDim.Render(e.Path))
				}
			}

			if len(verrs) > 0 {
				return fmt.Errorf("specification has %d validation error(s)", len(verrs))
			}
			logger.Info("specification is valid", "file", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit errors as JSON")
	return cmd
}
