package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/expense-api/cmd/expensectl/ui"
	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/database"
	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/payment"
)

func newOrdersCmd() *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Payment order ledger housekeeping",
	}

	expireCmd := &cobra.Command{
		Use:   "expire",
		Short: "Mark PENDING orders older than --older-than as FAILED",
		RunE:  runExpireOrders,
	}
	expireCmd.Flags().Duration("older-than", 24*time.Hour, "Age after which a pending order is abandoned")

	ordersCmd.AddCommand(expireCmd)
	return ordersCmd
}

func runExpireOrders(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")
	if olderThan <= 0 {
		return fmt.Errorf("--older-than must be positive, got %s", olderThan)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(false)
	db, err := database.Open(cmd.Context(), *cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	n, err := payment.NewOrderRepository(db).ExpireStale(cmd.Context(), now.Add(-olderThan), now)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	ui.PrintSuccess(w, "Stale orders expired")
	ui.PrintField(w, "cutoff", now.Add(-olderThan).UTC().Format(time.RFC3339))
	ui.PrintField(w, "expired", n)
	return nil
}
