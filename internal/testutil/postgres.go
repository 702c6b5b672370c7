// Package testutil boots dependencies for integration tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/migrations"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:17.6-alpine3.22"

// StartPostgres runs a postgres container with the schema migrated.
func StartPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("checkout"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	if err := migrations.Up(connStr); err != nil {
		return nil, "", fmt.Errorf("migrations.Up: %w", err)
	}

	return postgresContainer, connStr, nil
}

// Truncate empties every table of the schema.
func Truncate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE TABLE stock_movements, stock_ledger_entries, payments, order_items, orders,
		cart_items, inventory, products, customers CASCADE`)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}
