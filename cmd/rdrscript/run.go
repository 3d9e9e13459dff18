package main

import (
	"github.com/aretw0/rdrscript/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [sample]",
	Short: "Run a sample script against a renderer",
	Long: `Connects to the renderer, runs the initial operations of the sample one at a
time and keeps handling renderer events until the session ends or is interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := sourceOptions(cmd)
		opts := cli.RunOptions{
			LogOptions: logOptions(cmd),
			Dir:        src.Dir,
			Library:    src.Library,
		}
		opts.App, _ = cmd.Flags().GetString("app")
		opts.Runner, _ = cmd.Flags().GetString("runner")
		opts.Sample, _ = cmd.Flags().GetString("name")
		if len(args) > 0 && !cmd.Flags().Changed("name") {
			opts.Sample = args[0]
		}
		opts.Renderer, _ = cmd.Flags().GetString("renderer")
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.LockTTL, _ = cmd.Flags().GetDuration("lock-ttl")
		opts.ExitWhenIdle, _ = cmd.Flags().GetBool("exit-when-idle")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.Run(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("app", "a", env.App, "App name sent in the session handshake")
	runCmd.Flags().StringP("runner", "r", env.Runner, "Runner name sent in the session handshake")
	runCmd.Flags().StringP("name", "n", env.Name, "Sample to run (default: the runner name)")
	runCmd.Flags().String("renderer", env.Renderer, "Renderer address: unix://path, ws://host/path or mem://")
	runCmd.Flags().String("metrics-addr", env.MetricsAddr, "Serve /metrics, /status and /healthz on this address")
	runCmd.Flags().String("redis-addr", env.RedisAddr, "Redis address of the run lock shared by concurrent clients")
	runCmd.Flags().Duration("lock-ttl", env.LockTTL, "Expiry of the run lock (default 30s)")
	runCmd.Flags().Bool("exit-when-idle", env.ExitWhenIdle, "Exit once the script completed if it has no event subscriptions")
	runCmd.Flags().BoolP("quiet", "q", env.Quiet, "Do not print banner and status lines")

	// 'run' is the default command
	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
