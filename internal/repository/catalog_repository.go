package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/db"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q *db.Queries
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{q: db.New(pool)}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{q: db.New(tx)}
}

func (r *catalogRepository) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Product{}, nil
	}

	rows, err := r.q.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.GetProducts: %w", err)
	}

	return mapProductRowsToDomain(rows)
}

func (r *catalogRepository) LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Product{}, nil
	}

	rows, err := r.q.LockProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.LockProducts: %w", err)
	}

	converted := make([]db.GetProductsRow, 0, len(rows))
	for _, row := range rows {
		converted = append(converted, db.GetProductsRow(row))
	}

	return mapProductRowsToDomain(converted)
}

func (r *catalogRepository) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	if customerID == "" {
		return domain.Customer{}, fmt.Errorf("customerID is empty")
	}

	row, err := r.q.GetCustomer(ctx, customerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("q.GetCustomer: %w", err)
	}

	return domain.Customer{
		ID:    row.ID,
		Email: row.Email,
		Name:  row.Name,
	}, nil
}

func mapProductRowsToDomain(rows []db.GetProductsRow) (map[uuid.UUID]domain.Product, error) {
	products := make(map[uuid.UUID]domain.Product, len(rows))

	for _, row := range rows {
		parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
		}

		products[row.ID] = domain.Product{
			ID:            row.ID,
			VendorID:      row.VendorID,
			Name:          row.Name,
			Price:         domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
			DiscountPrice: fromNullDecimal(row.DiscountAmount),
			Active:        row.Active,
			Stock:         row.StockQuantity,
		}
	}

	return products, nil
}
