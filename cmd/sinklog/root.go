package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command when sinklog is called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "sinklog",
	Short: "Run and inspect sinklog logging pipelines",
	Long: `sinklog drives a multi-destination logging pipeline: category loggers
fan out to console, rotating file and zap destinations, with optional
batching and owning-goroutine dispatch per destination.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd(), newValidateCmd(), newVersionCmd())
}

// SetVersion sets the version reported by --version and the version
// command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "sinklog version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
