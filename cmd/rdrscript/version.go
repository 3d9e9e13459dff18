package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/rdrscript"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rdrscript",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rdrscript version %s\n", strings.TrimSpace(rdrscript.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
