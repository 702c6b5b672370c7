package cli

import (
	"fmt"

	"github.com/nikolayk812/checkout-demo/internal/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateDown,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE:  runMigrateVersion,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if err := migrations.Up(cfg.Database.URL); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	steps, _ := cmd.Flags().GetInt("steps")
	if steps <= 0 {
		return fmt.Errorf("--steps must be positive")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if err := migrations.Down(cfg.Database.URL, steps); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	version, dirty, err := migrations.Version(cfg.Database.URL)
	if err != nil {
		return err
	}

	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", version)
	return nil
}
