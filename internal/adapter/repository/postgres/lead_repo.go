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

const leadColumns = `id, account_id, product_id, customer_name, customer_phone, status, commission_amount, commission_status, rejection_reason, timeline, version, created_at, updated_at`

// LeadRepository implements usecase.LeadRepository.
type LeadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new LeadRepository.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// Create inserts a new lead.
func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	timeline, err := json.Marshal(lead.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		lead.ID,
		lead.AccountID,
		lead.ProductID,
		lead.CustomerName,
		lead.CustomerPhone,
		lead.Status,
		decimalToNumeric(lead.CommissionAmount),
		lead.CommissionStatus,
		lead.RejectionReason,
		timeline,
		lead.Version,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	return err
}

// GetByID retrieves a lead by ID.
func (r *LeadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	return scanLead(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a lead with a row lock, inside the given
// transaction.
func (r *LeadRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Lead, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 FOR UPDATE`

	return scanLead(pgxTx.QueryRow(ctx, query, id))
}

// UpdateStatus persists the lead's mutable fields, guarded by the expected
// current status. Returns false when the guard matched zero rows.
func (r *LeadRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, lead *domain.Lead, from domain.LeadStatus, updatedAt time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	timeline, err := json.Marshal(lead.Timeline)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE leads
		SET status = $3, commission_status = $4, rejection_reason = $5,
		    timeline = $6, version = version + 1, updated_at = $7
		WHERE id = $1 AND status = $2
	`

	tag, err := pgxTx.Exec(ctx, query,
		lead.ID,
		from,
		lead.Status,
		lead.CommissionStatus,
		lead.RejectionReason,
		timeline,
		updatedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	lead.Version++
	lead.UpdatedAt = updatedAt

	return true, nil
}

// ListByAccount retrieves an account's leads, newest first.
func (r *LeadRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

// List retrieves leads, optionally filtered by status.
func (r *LeadRepository) List(ctx context.Context, status domain.LeadStatus, limit, offset int) ([]*domain.Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead
	var commission pgtype.Numeric
	var timeline []byte

	err := row.Scan(
		&lead.ID,
		&lead.AccountID,
		&lead.ProductID,
		&lead.CustomerName,
		&lead.CustomerPhone,
		&lead.Status,
		&commission,
		&lead.CommissionStatus,
		&lead.RejectionReason,
		&timeline,
		&lead.Version,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	lead.CommissionAmount = numericToDecimal(commission)
	if timeline != nil {
		_ = json.Unmarshal(timeline, &lead.Timeline)
	}

	return &lead, nil
}

func scanLeads(rows pgx.Rows) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
