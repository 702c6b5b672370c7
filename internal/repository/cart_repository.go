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
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q *db.Queries
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{q: db.New(pool)}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{q: db.New(tx)}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	lines, err := mapGetCartRowsToDomain(rows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   lines,
	}, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, line domain.CartLine) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if line.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	rowsAffected, err := r.q.AddItem(ctx, db.AddItemParams{
		OwnerID:        ownerID,
		ProductID:      line.ProductID,
		Quantity:       line.Quantity,
		PriceAmount:    line.Price.Amount,
		PriceCurrency:  line.Price.Currency.String(),
		DiscountAmount: toNullDecimal(line.DiscountPrice),
	})
	if err != nil {
		return fmt.Errorf("q.AddItem: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrDuplicateCartLine
	}

	return nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}
	if quantity <= 0 {
		return false, fmt.Errorf("quantity must be positive")
	}

	rowsAffected, err := r.q.UpdateItemQuantity(ctx, db.UpdateItemQuantityParams{
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateItemQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID:   ownerID,
		ProductID: productID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.ClearCart(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("q.ClearCart: %w", err)
	}

	return rowsAffected, nil
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartLine, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartLine{
		ProductID:     row.ProductID,
		Quantity:      row.Quantity,
		Price:         domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		DiscountPrice: fromNullDecimal(row.DiscountAmount),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	for _, row := range rows {
		line, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
