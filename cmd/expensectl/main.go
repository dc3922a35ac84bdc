package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/expense-api/cmd/expensectl/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "expensectl",
		Short:         "Maintenance commands for the expense API",
		Long:          "Run schema migrations and payment ledger housekeeping against the configured database (DB_* environment).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newMigrateCmd(), newOrdersCmd())
	return rootCmd
}
