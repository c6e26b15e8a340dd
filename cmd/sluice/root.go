package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sluice/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sluice",
	Short: "Sluice routes workflow event streams through terminal templates",
	Long: `Sluice sits between a DAG workflow engine and a streaming client.
It transforms the engine's raw event sequence into each terminal node's
templated output stream: pruning untaken branches, emitting template
segments as soon as their values are final, and forwarding live chunks
to the terminals waiting on them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger from the persistent --log-level flag.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(level))
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("definition", "f", "workflow.yaml", "Workflow definition file")
}
