package port

import (
	"context"

	"github.com/nikolayk812/checkout-demo/internal/domain"
)

type OrderConfirmation struct {
	OrderID     string               `json:"order_id"`
	Email       string               `json:"email"`
	Name        string               `json:"name"`
	OrderNumber string               `json:"order_number"`
	Amount      string               `json:"amount"`
	Currency    string               `json:"currency"`
	Method      domain.PaymentMethod `json:"method"`
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error
}
