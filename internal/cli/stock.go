package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage product stock",
}

var stockAddCmd = &cobra.Command{
	Use:   "add [product-id] [quantity]",
	Short: "Restock a product",
	Args:  cobra.ExactArgs(2),
	RunE:  runStockAdd,
}

var stockShowCmd = &cobra.Command{
	Use:   "show [product-id...]",
	Short: "Show stock on hand",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStockShow,
}

var stockMovementsCmd = &cobra.Command{
	Use:   "movements [order-id]",
	Short: "Show stock movements recorded for an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runStockMovements,
}

func init() {
	stockCmd.AddCommand(stockAddCmd)
	stockCmd.AddCommand(stockShowCmd)
	stockCmd.AddCommand(stockMovementsCmd)
}

func runStockAdd(cmd *cobra.Command, args []string) error {
	productID, err := parseID("product-id", args[0])
	if err != nil {
		return err
	}

	qty, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil || qty <= 0 {
		return fmt.Errorf("quantity[%s] must be a positive integer", args[1])
	}

	return withApp(cmd.Context(), func(a *app) error {
		if err := a.ledger().Restock(cmd.Context(), productID, int32(qty)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "restocked %s by %d\n", productID, qty)
		return nil
	})
}

func runStockShow(cmd *cobra.Command, args []string) error {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := parseID("product-id", arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	return withApp(cmd.Context(), func(a *app) error {
		levels, err := a.ledger().Stock(cmd.Context(), ids)
		if err != nil {
			return err
		}

		if len(levels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stock found.")
			return nil
		}

		for _, l := range levels {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %d\n", l.ProductID, l.Quantity)
		}
		return nil
	})
}

func runStockMovements(cmd *cobra.Command, args []string) error {
	orderID, err := parseID("order-id", args[0])
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		movements, err := a.ledger().Movements(cmd.Context(), orderID)
		if err != nil {
			return err
		}

		for _, m := range movements {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-8s  %s  %+d\n",
				m.CreatedAt.Format("2006-01-02 15:04:05"), m.Kind, m.ProductID, m.Quantity)
		}
		return nil
	})
}

func parseID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s[%s] is not a uuid", name, value)
	}
	return id, nil
}
