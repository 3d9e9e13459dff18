package main

import (
	"fmt"
	"os"

	"github.com/aretw0/rdrscript/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rdrscript",
	Short: "rdrscript drives a renderer with a sample script",
	Long: `rdrscript connects to a renderer, creates windows, streams documents into them
and reacts to the events the renderer reports, as described by a sample script.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return envErr
	},
}

// env supplies flag defaults from RDRSCRIPT_* variables.
var env, envErr = cli.LoadEnv()

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", env.Debug, "Log every request, response and event")
	rootCmd.PersistentFlags().String("log-level", env.LogLevel, "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", env.LogFormat, "Log format: text or json")
	rootCmd.PersistentFlags().String("dir", env.Dir, "Directory containing sample scripts")
	rootCmd.PersistentFlags().String("library", env.Library, "Loam library holding sample scripts (overrides --dir)")
}

func sourceOptions(cmd *cobra.Command) cli.SourceOptions {
	dir, _ := cmd.Flags().GetString("dir")
	library, _ := cmd.Flags().GetString("library")
	return cli.SourceOptions{Dir: dir, Library: library}
}

func logOptions(cmd *cobra.Command) cli.LogOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return cli.LogOptions{Debug: debug, Level: level, Format: format}
}
