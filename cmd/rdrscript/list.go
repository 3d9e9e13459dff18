package main

import (
	"os"

	"github.com/aretw0/rdrscript/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.List(cmd.Context(), sourceOptions(cmd), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
