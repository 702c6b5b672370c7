package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusCreated              OrderStatus = "created"
	OrderStatusPendingPayment       OrderStatus = "pending_payment"
	OrderStatusConfirmed            OrderStatus = "confirmed"
	OrderStatusPaymentFailed        OrderStatus = "payment_failed"
	OrderStatusCancelled            OrderStatus = "cancelled"
	OrderStatusRequiresManualReview OrderStatus = "requires_manual_review"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated: {
		OrderStatusPendingPayment,
		OrderStatusCancelled,
	},
	OrderStatusPendingPayment: {
		OrderStatusConfirmed,
		OrderStatusRequiresManualReview,
		OrderStatusPaymentFailed,
		OrderStatusCancelled,
	},
	OrderStatusRequiresManualReview: {
		OrderStatusConfirmed,
		OrderStatusCancelled,
	},
	OrderStatusConfirmed: {
		OrderStatusCancelled,
	},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// IsPreConfirmed reports whether no inventory has been consumed for the order yet.
func (s OrderStatus) IsPreConfirmed() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPendingPayment, OrderStatusRequiresManualReview:
		return true
	}
	return false
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok || s == OrderStatusPaymentFailed || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is the aggregate root. Items and all money fields are written once
// at creation and never recomputed from the live catalog.
type Order struct {
	ID         uuid.UUID
	Number     string
	CustomerID string
	VendorID   string

	SubTotal        Money
	Discount        Money
	ShippingCharges Money
	TaxAmount       Money
	Total           Money

	Status OrderStatus
	Items  []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int32
	UnitPrice Money
}

// NewOrder snapshots a checkout summary into a Created order.
func NewOrder(summary CheckoutSummary, now time.Time) Order {
	id := uuid.New()

	items := make([]OrderItem, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		unit := line.UnitPrice
		if line.DiscountPrice != nil {
			unit = Money{Amount: *line.DiscountPrice, Currency: line.UnitPrice.Currency}
		}
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
		})
	}

	return Order{
		ID:              id,
		Number:          OrderNumber(id, now),
		CustomerID:      summary.CustomerID,
		VendorID:        summary.VendorID,
		SubTotal:        summary.SubTotal,
		Discount:        summary.Discount,
		ShippingCharges: summary.ShippingCharges,
		TaxAmount:       summary.TaxAmount,
		Total:           summary.GrandTotal,
		Status:          OrderStatusCreated,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OrderNumber renders ORD-YYYYMMDD-XXXXXXXXXXXXXXXX from the last 16 hex
// digits of the order id, which skip the uuid version nibble.
func OrderNumber(id uuid.UUID, now time.Time) string {
	suffix := strings.ToUpper(hex.EncodeToString(id[8:]))
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

func (o Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
