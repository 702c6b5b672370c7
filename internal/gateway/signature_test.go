package gateway_test

import (
	"testing"

	"github.com/nikolayk812/checkout-demo/internal/gateway"
	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	valid := gateway.Sign(keySecret, "order_1", "pay_1")

	tests := []struct {
		name       string
		orderRef   string
		paymentRef string
		signature  string
		want       bool
	}{
		{name: "valid", orderRef: "order_1", paymentRef: "pay_1", signature: valid, want: true},
		{name: "other order", orderRef: "order_2", paymentRef: "pay_1", signature: valid},
		{name: "other payment", orderRef: "order_1", paymentRef: "pay_2", signature: valid},
		{name: "not hex", orderRef: "order_1", paymentRef: "pay_1", signature: "zz"},
		{name: "empty signature", orderRef: "order_1", paymentRef: "pay_1"},
		{name: "truncated", orderRef: "order_1", paymentRef: "pay_1", signature: valid[:10]},
		{name: "empty refs", signature: gateway.Sign(keySecret, "", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gateway.VerifySignature(keySecret, tt.orderRef, tt.paymentRef, tt.signature))
		})
	}
}

func TestSign_IsKeyed(t *testing.T) {
	assert.NotEqual(t, gateway.Sign("a", "order_1", "pay_1"), gateway.Sign("b", "order_1", "pay_1"))
	assert.Len(t, gateway.Sign("a", "order_1", "pay_1"), 64)
}
