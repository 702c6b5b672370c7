package testutil

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Catalog writes rows owned by collaborators outside the pipeline.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) AddCustomer(ctx context.Context) (domain.Customer, error) {
	customer := domain.Customer{
		ID:    gofakeit.UUID(),
		Email: gofakeit.Email(),
		Name:  gofakeit.Name(),
	}

	_, err := c.pool.Exec(ctx, `INSERT INTO customers (id, email, name) VALUES ($1, $2, $3)`,
		customer.ID, customer.Email, customer.Name)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	return customer, nil
}

// AddProduct inserts an active product with the given stock. A negative
// stock leaves the product without an inventory row.
func (c *Catalog) AddProduct(ctx context.Context, vendorID string, price domain.Money, discount *decimal.Decimal, stock int32) (domain.Product, error) {
	product := domain.Product{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Name:          gofakeit.ProductName(),
		Price:         price,
		DiscountPrice: discount,
		Active:        true,
		Stock:         max(stock, 0),
	}

	var discountAmount decimal.NullDecimal
	if discount != nil {
		discountAmount = decimal.NullDecimal{Decimal: *discount, Valid: true}
	}

	_, err := c.pool.Exec(ctx, `INSERT INTO products (id, vendor_id, name, price_amount, price_currency, discount_amount, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		product.ID, product.VendorID, product.Name, price.Amount, price.Currency.String(), discountAmount)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	if stock >= 0 {
		_, err = c.pool.Exec(ctx, `INSERT INTO inventory (product_id, stock_quantity) VALUES ($1, $2)`, product.ID, stock)
		if err != nil {
			return domain.Product{}, fmt.Errorf("insert inventory: %w", err)
		}
	}

	return product, nil
}

func (c *Catalog) SetPrice(ctx context.Context, productID uuid.UUID, amount decimal.Decimal) error {
	_, err := c.pool.Exec(ctx, `UPDATE products SET price_amount = $1, updated_at = now() WHERE id = $2`, amount, productID)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	return nil
}

func (c *Catalog) Deactivate(ctx context.Context, productID uuid.UUID) error {
	_, err := c.pool.Exec(ctx, `UPDATE products SET active = FALSE, updated_at = now() WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	return nil
}

func (c *Catalog) StockOf(ctx context.Context, productID uuid.UUID) (int32, error) {
	var stock int32
	err := c.pool.QueryRow(ctx, `SELECT stock_quantity FROM inventory WHERE product_id = $1`, productID).Scan(&stock)
	if err != nil {
		return 0, fmt.Errorf("select stock: %w", err)
	}
	return stock, nil
}

func USD(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.USD}
}

func RandomCurrency() currency.Unit {
	for {
		// tag is not a recognized currency
		result, err := currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			return result
		}
	}
}

func RandomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: RandomCurrency(),
	}
}
