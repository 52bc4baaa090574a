package main

import (
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <mangling>...",
	Short: "Demangle bare type manglings",
	Long: `Demangle one or more type manglings without a symbol prefix,
such as the strings found in Swift reflection metadata.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runType,
}

func runType(cmd *cobra.Command, args []string) error {
	ctx := newContext()
	return printTrees(output, args, ctx.DemangleType)
}
