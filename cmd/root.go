package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// logLevel is the shared log verbosity flag for all subcommands.
var logLevel string

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "Trace-driven simulator for set-associative memory caches",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error",
		"Log level (trace, debug, info, warn, error, fatal, panic)")
}
