package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/expense-api/cmd/expensectl/ui"
	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				ui.PrintSuccess(cmd.OutOrStdout(), "Migrations applied")
				return printVersion(cmd, m)
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE:  runMigrateDown,
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	downCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	steps, _ := cmd.Flags().GetInt("steps")
	yes, _ := cmd.Flags().GetBool("yes")

	if steps <= 0 {
		return fmt.Errorf("--steps must be positive, got %d", steps)
	}

	if !yes {
		ok, err := ui.Confirm(
			fmt.Sprintf("Roll back %d migration(s)?", steps),
			"Dropped tables lose their data.",
		)
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
		if !ok {
			ui.PrintWarning(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	return withMigrator(func(m *database.Migrator) error {
		if err := m.Down(steps); err != nil {
			return err
		}
		ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Rolled back %d migration(s)", steps))
		return printVersion(cmd, m)
	})
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(cfg.URL())
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func printVersion(cmd *cobra.Command, m *database.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	ui.PrintTitle(w, "Schema")
	ui.PrintField(w, "version", version)
	ui.PrintField(w, "dirty", dirty)
	return nil
}
