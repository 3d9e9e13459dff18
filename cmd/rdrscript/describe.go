package main

import (
	"os"

	"github.com/aretw0/rdrscript/internal/cli"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <sample>",
	Short: "Show a summary of a sample",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Describe(cmd.Context(), sourceOptions(cmd), args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
