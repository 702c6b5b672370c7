package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
)

type inventoryLedger struct {
	q    *db.Queries
	conn conn
}

func NewInventoryLedger(pool *pgxpool.Pool) port.InventoryLedger {
	return &inventoryLedger{
		q:    db.New(pool),
		conn: pool,
	}
}

func NewInventoryLedgerWithTx(tx pgx.Tx) port.InventoryLedger {
	return &inventoryLedger{
		q:    db.New(tx),
		conn: tx,
	}
}

func (l *inventoryLedger) Consume(ctx context.Context, orderID uuid.UUID, lines []domain.StockLine) (bool, error) {
	if orderID == uuid.Nil {
		return false, fmt.Errorf("orderID is empty")
	}

	lines, err := domain.NormalizeStockLines(lines)
	if err != nil {
		return false, err
	}

	return withTx(ctx, l.conn, func(q *db.Queries) (bool, error) {
		inserted, err := q.InsertLedgerEntry(ctx, db.InsertLedgerEntryParams{
			OrderID: orderID,
			Kind:    string(domain.LedgerKindConsume),
		})
		if err != nil {
			return false, fmt.Errorf("q.InsertLedgerEntry: %w", err)
		}
		if inserted == 0 {
			return false, nil
		}

		for _, line := range lines {
			debited, err := q.DebitStock(ctx, db.DebitStockParams{
				Quantity:  line.Quantity,
				ProductID: line.ProductID,
			})
			if err != nil {
				return false, fmt.Errorf("q.DebitStock: %w", err)
			}

			if debited == 0 {
				exists, err := q.StockExists(ctx, line.ProductID)
				if err != nil {
					return false, fmt.Errorf("q.StockExists: %w", err)
				}
				if !exists {
					return false, fmt.Errorf("stock for %s: %w", line.ProductID, domain.ErrProductNotFound)
				}
				return false, fmt.Errorf("product %s, want %d: %w", line.ProductID, line.Quantity, domain.ErrInsufficientStock)
			}

			if err := insertMovement(ctx, q, &orderID, line.ProductID, domain.LedgerKindConsume, -line.Quantity); err != nil {
				return false, err
			}
		}

		return true, nil
	})
}

func (l *inventoryLedger) Release(ctx context.Context, orderID uuid.UUID, lines []domain.StockLine) (bool, error) {
	if orderID == uuid.Nil {
		return false, fmt.Errorf("orderID is empty")
	}

	lines, err := domain.NormalizeStockLines(lines)
	if err != nil {
		return false, err
	}

	return withTx(ctx, l.conn, func(q *db.Queries) (bool, error) {
		consumed, err := q.LedgerEntryExists(ctx, db.LedgerEntryExistsParams{
			OrderID: orderID,
			Kind:    string(domain.LedgerKindConsume),
		})
		if err != nil {
			return false, fmt.Errorf("q.LedgerEntryExists: %w", err)
		}
		if !consumed {
			return false, nil
		}

		inserted, err := q.InsertLedgerEntry(ctx, db.InsertLedgerEntryParams{
			OrderID: orderID,
			Kind:    string(domain.LedgerKindRelease),
		})
		if err != nil {
			return false, fmt.Errorf("q.InsertLedgerEntry: %w", err)
		}
		if inserted == 0 {
			return false, nil
		}

		for _, line := range lines {
			credited, err := q.CreditStock(ctx, db.CreditStockParams{
				Quantity:  line.Quantity,
				ProductID: line.ProductID,
			})
			if err != nil {
				return false, fmt.Errorf("q.CreditStock: %w", err)
			}
			if credited == 0 {
				return false, fmt.Errorf("stock for %s: %w", line.ProductID, domain.ErrProductNotFound)
			}

			if err := insertMovement(ctx, q, &orderID, line.ProductID, domain.LedgerKindRelease, line.Quantity); err != nil {
				return false, err
			}
		}

		return true, nil
	})
}

func (l *inventoryLedger) Restock(ctx context.Context, productID uuid.UUID, quantity int32) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrValidation)
	}

	_, err := withTx(ctx, l.conn, func(q *db.Queries) (struct{}, error) {
		err := q.Restock(ctx, db.RestockParams{
			ProductID: productID,
			Quantity:  quantity,
		})
		if err != nil {
			if hasPgCode(err, pgForeignKeyViolation) {
				return struct{}{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
			}
			return struct{}{}, fmt.Errorf("q.Restock: %w", err)
		}

		return struct{}{}, insertMovement(ctx, q, nil, productID, domain.LedgerKindRestock, quantity)
	})

	return err
}

func (l *inventoryLedger) Stock(ctx context.Context, productIDs []uuid.UUID) ([]domain.StockLevel, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	rows, err := l.q.GetStock(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("q.GetStock: %w", err)
	}

	levels := make([]domain.StockLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, domain.StockLevel{
			ProductID: row.ProductID,
			Quantity:  row.StockQuantity,
		})
	}

	return levels, nil
}

func (l *inventoryLedger) Movements(ctx context.Context, orderID uuid.UUID) ([]domain.StockMovement, error) {
	rows, err := l.q.GetOrderMovements(ctx, uuid.NullUUID{UUID: orderID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderMovements: %w", err)
	}

	movements := make([]domain.StockMovement, 0, len(rows))
	for _, row := range rows {
		m := domain.StockMovement{
			ID:        row.ID,
			ProductID: row.ProductID,
			Kind:      domain.LedgerKind(row.Kind),
			Quantity:  row.Quantity,
			CreatedAt: row.CreatedAt,
		}
		if row.OrderID.Valid {
			id := row.OrderID.UUID
			m.OrderID = &id
		}
		movements = append(movements, m)
	}

	return movements, nil
}

func insertMovement(ctx context.Context, q *db.Queries, orderID *uuid.UUID, productID uuid.UUID, kind domain.LedgerKind, quantity int32) error {
	var nullOrderID uuid.NullUUID
	if orderID != nil {
		nullOrderID = uuid.NullUUID{UUID: *orderID, Valid: true}
	}

	err := q.InsertStockMovement(ctx, db.InsertStockMovementParams{
		OrderID:   nullOrderID,
		ProductID: productID,
		Kind:      string(kind),
		Quantity:  quantity,
	})
	if err != nil {
		return fmt.Errorf("q.InsertStockMovement: %w", err)
	}

	return nil
}
