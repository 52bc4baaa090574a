package main

import (
	"fmt"
	"io"
	"os"

	"github.com/appsworld/go-swiftdemangle/swift/demangle"
	"github.com/spf13/cobra"
)

var (
	outputFile string
	output     io.Writer
	maxDepth   int
	printDepth int
)

var rootCmd = &cobra.Command{
	Use:   "swift-demangle-tree",
	Short: "Print the parse tree of Swift mangled names",
	Long: `swift-demangle-tree demangles Swift symbols and type manglings and
prints the resulting node tree, one node per line.

It accepts the current scheme ($s, _$s, $S, _$S, _T0), Objective-C
runtime names (_Tt) and legacy _T symbols.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if maxDepth <= 0 {
			return fmt.Errorf("invalid --max-depth %d", maxDepth)
		}
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", demangle.DefaultMaxDepth, "nesting budget for the demangler")
	rootCmd.PersistentFlags().IntVar(&printDepth, "print-depth", 768, "nesting budget for the tree printer")

	rootCmd.AddCommand(symbolCmd)
	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(oldCmd)
}

// closeOutput closes the --output file, if one was opened. It runs after
// Execute so the file is closed even when a command fails.
func closeOutput() error {
	f, ok := output.(*os.File)
	output = nil
	if !ok || f == os.Stdout {
		return nil
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func newContext() *demangle.Context {
	return demangle.New(demangle.WithMaxDepth(maxDepth))
}

// printTrees demangles each name with fn and prints its tree. A failing name
// is reported and the rest are still printed.
func printTrees(w io.Writer, names []string, fn func(string) (*demangle.Node, error)) error {
	var failed int
	for i, name := range names {
		if len(names) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s:\n", name)
		}
		node, err := fn(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to demangle %q: %v\n", name, err)
			failed++
			continue
		}
		if err := demangle.PrintTree(w, node, printDepth); err != nil {
			return fmt.Errorf("failed to print %q: %w", name, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d names failed to demangle", failed, len(names))
	}
	return nil
}
