package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(reconcileCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Create overdue fines for every loan past due, once",
	Long: `Runs one overdue sweep and prints its counts as JSON. Safe to run
while "serve" is sweeping: a loan is never charged twice.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.sweep.ProcessOverdueFines(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rewrite stored fine balances from pending fines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.ledger.ReconcileBalances(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
