package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "librarysvc",
	Short: "Library fines service",
	Long: `Computes, records and settles library fines.
"serve" runs the HTTP API with the hourly overdue sweep and the notification
worker. "sweep" and "reconcile" run a single pass and exit.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
