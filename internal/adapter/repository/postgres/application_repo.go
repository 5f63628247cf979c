package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

const applicationColumns = `id, account_id, product_id, customer_name, amount, status, commission_status, rejection_reason, document_urls, timeline, version, created_at, updated_at`

// ApplicationRepository implements usecase.ApplicationRepository.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

// Create inserts a new application.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		app.ID,
		app.AccountID,
		app.ProductID,
		app.CustomerName,
		decimalToNumeric(app.Amount),
		app.Status,
		app.CommissionStatus,
		app.RejectionReason,
		app.DocumentURLs,
		timeline,
		app.Version,
		app.CreatedAt,
		app.UpdatedAt,
	)

	return err
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	return scanApplication(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an application with a row lock, inside the
// given transaction.
func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Application, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 FOR UPDATE`

	return scanApplication(pgxTx.QueryRow(ctx, query, id))
}

// UpdateStatus persists the application's mutable fields, guarded by the
// expected current status. Returns false when the guard matched zero rows.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, app *domain.Application, from domain.ApplicationStatus, updatedAt time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE applications
		SET status = $3, commission_status = $4, rejection_reason = $5,
		    timeline = $6, version = version + 1, updated_at = $7
		WHERE id = $1 AND status = $2
	`

	tag, err := pgxTx.Exec(ctx, query,
		app.ID,
		from,
		app.Status,
		app.CommissionStatus,
		app.RejectionReason,
		timeline,
		updatedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	app.Version++
	app.UpdatedAt = updatedAt

	return true, nil
}

// ListByAccount retrieves an account's applications, newest first.
func (r *ApplicationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	var amount pgtype.Numeric
	var timeline []byte

	err := row.Scan(
		&app.ID,
		&app.AccountID,
		&app.ProductID,
		&app.CustomerName,
		&amount,
		&app.Status,
		&app.CommissionStatus,
		&app.RejectionReason,
		&app.DocumentURLs,
		&timeline,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}

	app.Amount = numericToDecimal(amount)
	if timeline != nil {
		_ = json.Unmarshal(timeline, &app.Timeline)
	}

	return &app, nil
}
