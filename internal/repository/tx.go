package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/port"
)

// conn is either a *pgxpool.Pool or a pgx.Tx. Begin on a pgx.Tx opens a savepoint.
type conn interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

func withTx[T any](ctx context.Context, c conn, fn func(q *db.Queries) (T, error)) (T, error) {
	return inTx(ctx, c, func(tx pgx.Tx) (T, error) {
		return fn(db.New(tx))
	})
}

func inTx[T any](ctx context.Context, c conn, fn func(tx pgx.Tx) (T, error)) (_ T, txErr error) {
	var zero T

	// Inside an outer transaction this is a savepoint, so a failure here
	// rolls back only the work done by fn.
	tx, err := c.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("c.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}

type transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) port.Transactor {
	return &transactor{pool: pool}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(repos port.Repositories) error) error {
	_, err := inTx(ctx, t.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(RepositoriesWithTx(tx))
	})
	return err
}

// RepositoriesWithTx binds every repository to tx.
func RepositoriesWithTx(tx pgx.Tx) port.Repositories {
	return port.Repositories{
		Carts:    NewCartWithTx(tx),
		Catalog:  NewCatalogWithTx(tx),
		Orders:   NewOrderWithTx(tx),
		Payments: NewPaymentWithTx(tx),
		Ledger:   NewInventoryLedgerWithTx(tx),
	}
}
