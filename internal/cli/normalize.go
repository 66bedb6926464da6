package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/universql/internal/query"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Output string // output file path
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <tree-file>",
		Short: "Normalize a query tree document",
		Long: `Normalize a query tree given as a JSON, YAML or CUE document.

The document has the shape produced by "parse --ast":

  {"tables": [...], "map": {...}, "options": [{"type": ..., "value": ...}],
   "filters": [{"operator": "&", "operands": [...]} | {"key": ..., "comparator": ..., "value": ...}]}

Statement values are bare literals, {"type": "literal", "value": v} or
{"type": "field", "value": "name"}.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runNormalize(opts *NormalizeOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	formatter.VerboseLog("Loading query tree from %s", path)

	tree, err := LoadTree(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			var details any
			if loadErr.Pos.IsValid() {
				details = map[string]any{"position": loadErr.Pos.String()}
			}
			_ = formatter.Error(loadErr.Code, loadErr.Message, details)
			return WrapExitError(ExitCommandError, fmt.Sprintf("loading %s", path), err)
		}
		return outputQueryError(formatter, err)
	}

	q, err := query.New(tree)
	if err != nil {
		return outputQueryError(formatter, err)
	}
	return outputQuery(formatter, q, opts.Output)
}
