package main

import (
	"os"

	"github.com/aretw0/rdrscript/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <sample>",
	Short: "Check a sample script without connecting",
	Long:  `Loads the sample and reports bad locators, out of range windows, undefined named operations and operations used before their window exists.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(cmd.Context(), sourceOptions(cmd), args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
