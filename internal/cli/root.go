// Package cli implements the checkoutctl operator commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "checkoutctl",
		Short: "Operate the checkout-to-payment pipeline",
		Long: `checkoutctl runs schema migrations, manages stock, expires stale orders,
resolves orders parked for manual review and replays gateway callbacks.

Configuration is read from --config (YAML) and CHECKOUT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(paymentCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the checkoutctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
	},
}
