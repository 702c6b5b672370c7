package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	conn conn
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		conn: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		conn: tx,
	}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	if order.ID == uuid.Nil {
		return fmt.Errorf("order.ID is empty")
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("order.Items is empty")
	}

	_, err := withTx(ctx, r.conn, func(q *db.Queries) (struct{}, error) {
		err := q.CreateOrder(ctx, db.CreateOrderParams{
			ID:              order.ID,
			OrderNumber:     order.Number,
			CustomerID:      order.CustomerID,
			VendorID:        order.VendorID,
			Currency:        order.Total.Currency.String(),
			SubTotal:        order.SubTotal.Amount,
			Discount:        order.Discount.Amount,
			ShippingCharges: order.ShippingCharges.Amount,
			TaxAmount:       order.TaxAmount.Amount,
			TotalAmount:     order.Total.Amount,
			Status:          string(order.Status),
			CreatedAt:       order.CreatedAt,
			UpdatedAt:       order.UpdatedAt,
		})
		if err != nil {
			if hasPgCode(err, pgUniqueViolation) {
				return struct{}{}, fmt.Errorf("order %s: %w", order.Number, domain.ErrConflict)
			}
			return struct{}{}, fmt.Errorf("q.CreateOrder: %w", err)
		}

		for _, item := range order.Items {
			err := q.AddOrderItem(ctx, db.AddOrderItemParams{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice.Amount,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.AddOrderItem: %w", err)
			}
		}

		return struct{}{}, nil
	})

	return err
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	order, err := mapOrderToDomain(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderToDomain: %w", err)
	}

	items, err := r.q.GetOrderItems(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrderItems: %w", err)
	}

	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: domain.Money{Amount: item.UnitPrice, Currency: order.Total.Currency},
		})
	}

	return order, nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", from, to, domain.ErrInvalidState)
	}

	rowsAffected, err := r.q.TransitionOrderStatus(ctx, db.TransitionOrderStatusParams{
		ToStatus:   string(to),
		ID:         orderID,
		FromStatus: string(from),
	})
	if err != nil {
		return fmt.Errorf("q.TransitionOrderStatus: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("order %s is not %s: %w", orderID, from, domain.ErrInvalidState)
	}

	return nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, statuses []domain.OrderStatus, createdBefore time.Time, limit int32) ([]domain.Order, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("statuses is empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	params := db.ListOrdersByStatusParams{
		Statuses:      make([]string, 0, len(statuses)),
		CreatedBefore: createdBefore,
		MaxRows:       limit,
	}
	for _, s := range statuses {
		params.Statuses = append(params.Statuses, string(s))
	}

	rows, err := r.q.ListOrdersByStatus(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByStatus: %w", err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := mapOrderToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderToDomain(row db.Order) (domain.Order, error) {
	unit, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	status := domain.OrderStatus(row.Status)
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("status[%s] is not valid", row.Status)
	}

	return domain.Order{
		ID:              row.ID,
		Number:          row.OrderNumber,
		CustomerID:      row.CustomerID,
		VendorID:        row.VendorID,
		SubTotal:        domain.Money{Amount: row.SubTotal, Currency: unit},
		Discount:        domain.Money{Amount: row.Discount, Currency: unit},
		ShippingCharges: domain.Money{Amount: row.ShippingCharges, Currency: unit},
		TaxAmount:       domain.Money{Amount: row.TaxAmount, Currency: unit},
		Total:           domain.Money{Amount: row.TotalAmount, Currency: unit},
		Status:          status,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
