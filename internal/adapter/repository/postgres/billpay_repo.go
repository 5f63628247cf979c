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
)

const billPaymentColumns = `id, account_id, service_type, provider_code, account_number, amount, status, provider_tx_id, failure_reason, timeline, created_at, updated_at`

// BillPaymentRepository implements usecase.BillPaymentRepository.
type BillPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewBillPaymentRepository creates a new BillPaymentRepository.
func NewBillPaymentRepository(pool *pgxpool.Pool) *BillPaymentRepository {
	return &BillPaymentRepository{pool: pool}
}

// Create inserts a new bill payment.
func (r *BillPaymentRepository) Create(ctx context.Context, payment *domain.BillPayment) error {
	timeline, err := json.Marshal(payment.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bill_payments (` + billPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		payment.ID,
		payment.AccountID,
		payment.ServiceType,
		payment.ProviderCode,
		payment.AccountNumber,
		decimalToNumeric(payment.Amount),
		payment.Status,
		payment.ProviderTxID,
		payment.FailureReason,
		timeline,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

// GetByID retrieves a bill payment by ID.
func (r *BillPaymentRepository) GetByID(ctx context.Context, id string) (*domain.BillPayment, error) {
	query := `SELECT ` + billPaymentColumns + ` FROM bill_payments WHERE id = $1`

	return scanBillPayment(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus persists the payment's terminal state, guarded by the
// expected current status. Returns false when the guard matched zero rows.
func (r *BillPaymentRepository) UpdateStatus(ctx context.Context, payment *domain.BillPayment, from domain.BillPaymentStatus, updatedAt time.Time) (bool, error) {
	timeline, err := json.Marshal(payment.Timeline)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE bill_payments
		SET status = $3, provider_tx_id = $4, failure_reason = $5,
		    timeline = $6, updated_at = $7
		WHERE id = $1 AND status = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		payment.ID,
		from,
		payment.Status,
		payment.ProviderTxID,
		payment.FailureReason,
		timeline,
		updatedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	payment.UpdatedAt = updatedAt

	return true, nil
}

// ListByAccount retrieves an account's bill payments, newest first.
func (r *BillPaymentRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.BillPayment, error) {
	query := `
		SELECT ` + billPaymentColumns + `
		FROM bill_payments
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.BillPayment
	for rows.Next() {
		payment, err := scanBillPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanBillPayment(row pgx.Row) (*domain.BillPayment, error) {
	var payment domain.BillPayment
	var amount pgtype.Numeric
	var timeline []byte

	err := row.Scan(
		&payment.ID,
		&payment.AccountID,
		&payment.ServiceType,
		&payment.ProviderCode,
		&payment.AccountNumber,
		&amount,
		&payment.Status,
		&payment.ProviderTxID,
		&payment.FailureReason,
		&timeline,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBillPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	payment.Amount = numericToDecimal(amount)
	if timeline != nil {
		_ = json.Unmarshal(timeline, &payment.Timeline)
	}

	return &payment, nil
}
