package cli

import (
	"fmt"

	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/spf13/cobra"
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Initiate payments and replay gateway callbacks",
}

var paymentInitiateCmd = &cobra.Command{
	Use:   "initiate [customer-id] [order-id]",
	Short: "Open a gateway payment intent for an order",
	Args:  cobra.ExactArgs(2),
	RunE:  runPaymentInitiate,
}

var paymentVerifyCmd = &cobra.Command{
	Use:   "verify [order-id]",
	Short: "Replay a successful payment callback",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentVerify,
}

var paymentFailCmd = &cobra.Command{
	Use:   "fail [order-id]",
	Short: "Replay a failed payment callback",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentFail,
}

func init() {
	paymentCmd.AddCommand(paymentInitiateCmd)
	paymentCmd.AddCommand(paymentVerifyCmd)
	paymentCmd.AddCommand(paymentFailCmd)

	paymentInitiateCmd.Flags().String("method", string(domain.PaymentMethodCard), "Payment method: card, upi, netbanking or wallet")

	for _, c := range []*cobra.Command{paymentVerifyCmd, paymentFailCmd} {
		c.Flags().String("payment-ref", "", "Gateway payment reference")
		c.Flags().String("signature", "", "Callback signature")
		_ = c.MarkFlagRequired("payment-ref")
		_ = c.MarkFlagRequired("signature")
	}
	paymentFailCmd.Flags().String("reason", "", "Failure reason reported by the gateway")
}

func runPaymentInitiate(cmd *cobra.Command, args []string) error {
	orderID, err := parseID("order-id", args[1])
	if err != nil {
		return err
	}
	method, _ := cmd.Flags().GetString("method")

	return withApp(cmd.Context(), func(a *app) error {
		engine, err := a.engine()
		if err != nil {
			return err
		}

		ref, err := engine.Initiate(cmd.Context(), args[0], orderID, domain.PaymentMethod(method))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "order %s awaits payment of %s, gateway order %s\n",
			ref.OrderNumber, ref.Amount, ref.GatewayOrderRef)
		return nil
	})
}

func runPaymentVerify(cmd *cobra.Command, args []string) error {
	return replayCallback(cmd, args, false)
}

func runPaymentFail(cmd *cobra.Command, args []string) error {
	return replayCallback(cmd, args, true)
}

// replayCallback feeds a callback recorded by the gateway back into the
// engine. The expected order reference is the one stored for the order.
func replayCallback(cmd *cobra.Command, args []string, failed bool) error {
	orderID, err := parseID("order-id", args[0])
	if err != nil {
		return err
	}
	paymentRef, _ := cmd.Flags().GetString("payment-ref")
	signature, _ := cmd.Flags().GetString("signature")

	return withApp(cmd.Context(), func(a *app) error {
		engine, err := a.engine()
		if err != nil {
			return err
		}

		o, err := a.orders().GetOrder(cmd.Context(), orderID)
		if err != nil {
			return err
		}

		current, err := engine.Details(cmd.Context(), o.CustomerID, orderID)
		if err != nil {
			return err
		}

		cb := domain.Callback{
			OrderRef:   current.Payment.GatewayOrderRef,
			PaymentRef: paymentRef,
			Signature:  signature,
		}

		var details domain.PaymentDetails
		if failed {
			reason, _ := cmd.Flags().GetString("reason")
			details, err = engine.Fail(cmd.Context(), cb, cb.OrderRef, reason)
		} else {
			details, err = engine.Verify(cmd.Context(), cb, cb.OrderRef)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "payment %s, order %s is %s\n",
			details.Payment.Status, details.Order.Number, details.Order.Status)
		return nil
	})
}
