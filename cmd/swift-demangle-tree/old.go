package main

import (
	"github.com/appsworld/go-swiftdemangle/swift/demangle"
	"github.com/spf13/cobra"
)

var oldAsType bool

var oldCmd = &cobra.Command{
	Use:   "old <name>...",
	Short: "Demangle legacy _T names",
	Long: `Demangle one or more names of the legacy scheme. With --type the
arguments are read as bare legacy type manglings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOld,
}

func init() {
	oldCmd.Flags().BoolVarP(&oldAsType, "type", "t", false, "treat arguments as legacy type manglings")
}

func runOld(cmd *cobra.Command, args []string) error {
	f := demangle.NewFactory()
	opts := []demangle.Option{demangle.WithMaxDepth(maxDepth)}
	fn := func(name string) (*demangle.Node, error) {
		return demangle.DemangleOldSymbolAsNode(name, f, opts...)
	}
	if oldAsType {
		fn = func(name string) (*demangle.Node, error) {
			return demangle.DemangleOldTypeAsNode(name, f, opts...)
		}
	}
	return printTrees(output, args, fn)
}
