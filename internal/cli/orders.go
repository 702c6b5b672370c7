package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Create and maintain orders",
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create [customer-id]",
	Short: "Place an order from a customer's cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersCreate,
}

var ordersShowCmd = &cobra.Command{
	Use:   "show [order-id]",
	Short: "Show an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersShow,
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel [customer-id] [order-id]",
	Short: "Cancel an order on behalf of its customer",
	Args:  cobra.ExactArgs(2),
	RunE:  runOrdersCancel,
}

var ordersExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Cancel orders left unpaid for too long",
	Args:  cobra.NoArgs,
	RunE:  runOrdersExpire,
}

func init() {
	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	ordersCmd.AddCommand(ordersCancelCmd)
	ordersCmd.AddCommand(ordersExpireCmd)

	ordersExpireCmd.Flags().Duration("older-than", 24*time.Hour, "Expire orders created before now minus this window")
	ordersExpireCmd.Flags().Int32("limit", 100, "Maximum number of orders to expire")
}

func runOrdersCreate(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		wf, err := a.workflow()
		if err != nil {
			return err
		}

		o, err := wf.Create(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printOrder(cmd.OutOrStdout(), o)
		return nil
	})
}

func runOrdersShow(cmd *cobra.Command, args []string) error {
	orderID, err := parseID("order-id", args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		o, err := a.orders().GetOrder(cmd.Context(), orderID)
		if err != nil {
			return err
		}

		printOrder(cmd.OutOrStdout(), o)
		return nil
	})
}

func runOrdersCancel(cmd *cobra.Command, args []string) error {
	orderID, err := parseID("order-id", args[1])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		wf, err := a.workflow()
		if err != nil {
			return err
		}

		o, err := wf.Cancel(cmd.Context(), args[0], orderID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", o.Number, o.Status)
		return nil
	})
}

func runOrdersExpire(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")
	limit, _ := cmd.Flags().GetInt32("limit")
	if olderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	return withApp(cmd.Context(), func(a *app) error {
		wf, err := a.workflow()
		if err != nil {
			return err
		}

		n, err := wf.ExpireStale(cmd.Context(), olderThan, limit)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "expired %d order(s)\n", n)
		return nil
	})
}

func printOrder(w io.Writer, o domain.Order) {
	fmt.Fprintf(w, "%s  %s  %s\n", o.Number, o.Status, o.ID)
	fmt.Fprintf(w, "  customer  %s\n", o.CustomerID)
	fmt.Fprintf(w, "  created   %s\n", o.CreatedAt.Format(time.RFC3339))
	for _, item := range o.Items {
		fmt.Fprintf(w, "  %s  x%-3d  %s\n", item.ProductID, item.Quantity, item.UnitPrice)
	}
	fmt.Fprintf(w, "  total     %s\n", o.Total)
}
