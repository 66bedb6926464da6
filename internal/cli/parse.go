package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/universql/internal/ast"
	"github.com/roach88/universql/internal/parser"
	"github.com/roach88/universql/internal/query"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	AST    bool   // print the parsed tree instead of normalizing
	Output string // output file path
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <query>...",
		Short: "Parse and normalize query text",
		Long: `Parse query text and print the normalized query.

Arguments are joined with spaces, so quoting the whole query is optional.
Use "-" to read the query from stdin.

Exit codes:
  0 - Query is valid
  1 - Query was rejected (syntax error, missing table, unknown option)
  2 - Command error

Examples:
  universql parse "FROM users WHERE age > 21 & name = 'bob' LIMIT 10"
  universql parse --ast "FROM users WHERE age > 21"
  echo "FROM users" | universql parse - --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readQueryText(cmd, args)
			if err != nil {
				return err
			}
			return runParse(opts, src, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.AST, "ast", false, "print the parsed tree without normalizing it")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func readQueryText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", WrapExitError(ExitCommandError, "reading stdin", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}

func runParse(opts *ParseOptions, src string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	formatter.VerboseLog("Parsing %d byte(s) of query text", len(src))

	tree, err := parser.Parse(src)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	if opts.AST {
		return outputTree(formatter, tree, opts.Output)
	}

	q, err := query.New(tree)
	if err != nil {
		return outputQueryError(formatter, err)
	}
	return outputQuery(formatter, q, opts.Output)
}

// outputTree prints the parsed tree in its document form.
func outputTree(f *OutputFormatter, tree *ast.Tree, outputFile string) error {
	doc := ast.Encode(tree)

	if outputFile != "" {
		if err := writeJSONFile(outputFile, doc); err != nil {
			_ = f.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	if f.Format == "json" {
		return f.Success(doc)
	}

	if len(tree.Filters) == 0 {
		fmt.Fprintln(f.Writer, "(no filter)")
	}
	for _, n := range tree.Filters {
		printNode(f.Writer, n, 0)
	}
	for _, opt := range tree.Options {
		fmt.Fprintf(f.Writer, "option %s %s\n", opt.Type, query.FormatLiteral(opt.Value))
	}
	if outputFile != "" {
		fmt.Fprintf(f.Writer, "Wrote tree to %s\n", outputFile)
	}
	return nil
}

// printNode writes an indented outline of a filter tree.
func printNode(w io.Writer, n ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch node := n.(type) {
	case *ast.Operation:
		fmt.Fprintf(w, "%s%s\n", indent, node.Operator)
		for _, child := range node.Operands {
			printNode(w, child, depth+1)
		}
	case *ast.Statement:
		var operand string
		switch v := node.Value.(type) {
		case ast.Literal:
			operand = query.FormatLiteral(v.Value)
		case ast.FieldRef:
			operand = v.Field
		}
		fmt.Fprintf(w, "%s%s %s %s\n", indent, node.Key, node.Comparator, operand)
	case ast.Empty:
		fmt.Fprintf(w, "%s{}\n", indent)
	}
}
