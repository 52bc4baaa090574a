package main

import (
	"github.com/spf13/cobra"
)

var symbolCmd = &cobra.Command{
	Use:   "symbol <name>...",
	Short: "Demangle symbols",
	Long: `Demangle one or more symbols. The scheme is picked from the prefix,
so current, Objective-C runtime and legacy _T names may be mixed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSymbol,
}

func runSymbol(cmd *cobra.Command, args []string) error {
	ctx := newContext()
	return printTrees(output, args, ctx.Demangle)
}
