package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect customer carts",
}

var cartShowCmd = &cobra.Command{
	Use:   "show [customer-id]",
	Short: "Show a cart and its checkout summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartShow,
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	customerID := args[0]

	return withApp(cmd.Context(), func(a *app) error {
		c, err := a.cartService().GetCart(cmd.Context(), customerID)
		if err != nil {
			return err
		}

		if c.IsEmpty() {
			fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty.")
			return nil
		}

		agg, err := a.aggregator()
		if err != nil {
			return err
		}

		summary, err := agg.ComputeSummary(cmd.Context(), customerID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, l := range summary.Lines {
			fmt.Fprintf(out, "  %-30s  x%-3d  %s\n", l.Name, l.Quantity, l.LineTotal)
		}
		fmt.Fprintf(out, "\n  subtotal  %s\n", summary.SubTotal)
		fmt.Fprintf(out, "  discount  %s\n", summary.Discount)
		fmt.Fprintf(out, "  shipping  %s\n", summary.ShippingCharges)
		fmt.Fprintf(out, "  tax       %s\n", summary.TaxAmount)
		fmt.Fprintf(out, "  total     %s\n", summary.GrandTotal)
		return nil
	})
}
