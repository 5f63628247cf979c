package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sambhav/earnings/internal/domain"
)

const productColumns = `id, name, kind, commission_type, commission_value, max_commission, min_amount, max_amount, active, created_at, updated_at`

// ProductRepository implements usecase.ProductRepository.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Kind,
		product.Commission.Type,
		decimalToNumeric(product.Commission.Value),
		optionalDecimalToNumeric(product.Commission.MaxCommission),
		optionalDecimalToNumeric(product.Commission.MinAmount),
		optionalDecimalToNumeric(product.Commission.MaxAmount),
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)

	return err
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

// List retrieves products, optionally restricted to active ones.
func (r *ProductRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE (NOT $1 OR active)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	var value, maxCommission, minAmount, maxAmount pgtype.Numeric

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Kind,
		&product.Commission.Type,
		&value,
		&maxCommission,
		&minAmount,
		&maxAmount,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	product.Commission.Value = numericToDecimal(value)
	product.Commission.MaxCommission = numericToOptionalDecimal(maxCommission)
	product.Commission.MinAmount = numericToOptionalDecimal(minAmount)
	product.Commission.MaxAmount = numericToOptionalDecimal(maxAmount)

	return &product, nil
}
