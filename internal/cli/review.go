package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Resolve paid orders whose stock could not be consumed",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders requiring manual review",
	Args:  cobra.NoArgs,
	RunE:  runReviewList,
}

var reviewRetryCmd = &cobra.Command{
	Use:   "retry [order-id]",
	Short: "Retry stock consumption and confirm the order",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewRetry,
}

func init() {
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewRetryCmd)

	reviewListCmd.Flags().Int32("limit", 50, "Number of orders to show")
}

func runReviewList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt32("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	return withApp(cmd.Context(), func(a *app) error {
		wf, err := a.workflow()
		if err != nil {
			return err
		}

		orders, err := wf.ListManualReview(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(orders) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No orders require review.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Orders requiring review (%d):\n\n", len(orders))
		for _, o := range orders {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s  %s  %s\n",
				o.CreatedAt.Format(time.DateTime), o.Number, o.ID, o.Total)
		}
		return nil
	})
}

func runReviewRetry(cmd *cobra.Command, args []string) error {
	orderID, err := parseID("order-id", args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		wf, err := a.workflow()
		if err != nil {
			return err
		}

		o, err := wf.RetryManualReview(cmd.Context(), orderID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", o.Number, o.Status)
		return nil
	})
}
