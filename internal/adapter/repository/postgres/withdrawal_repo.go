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

const withdrawalColumns = `id, account_id, amount, status, method, payout_ref, transaction_id, rejection_reason, timeline, version, created_at, updated_at`

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	pool *pgxpool.Pool
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(pool *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{pool: pool}
}

// Create inserts a new withdrawal request.
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	timeline, err := json.Marshal(withdrawal.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO withdrawals (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		withdrawal.ID,
		withdrawal.AccountID,
		decimalToNumeric(withdrawal.Amount),
		withdrawal.Status,
		withdrawal.Method,
		withdrawal.PayoutRef,
		withdrawal.TransactionID,
		withdrawal.RejectionReason,
		timeline,
		withdrawal.Version,
		withdrawal.CreatedAt,
		withdrawal.UpdatedAt,
	)

	return err
}

// GetByID retrieves a withdrawal by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`

	return scanWithdrawal(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a withdrawal with a row lock, inside the
// given transaction.
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Withdrawal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1 FOR UPDATE`

	return scanWithdrawal(pgxTx.QueryRow(ctx, query, id))
}

// UpdateStatus persists the withdrawal's mutable fields, guarded by the
// expected current status. Returns false when the guard matched zero rows.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, withdrawal *domain.Withdrawal, from domain.WithdrawalStatus, updatedAt time.Time) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	timeline, err := json.Marshal(withdrawal.Timeline)
	if err != nil {
		return false, err
	}

	query := `
		UPDATE withdrawals
		SET status = $3, transaction_id = $4, rejection_reason = $5,
		    timeline = $6, version = version + 1, updated_at = $7
		WHERE id = $1 AND status = $2
	`

	tag, err := pgxTx.Exec(ctx, query,
		withdrawal.ID,
		from,
		withdrawal.Status,
		withdrawal.TransactionID,
		withdrawal.RejectionReason,
		timeline,
		updatedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	withdrawal.Version++
	withdrawal.UpdatedAt = updatedAt

	return true, nil
}

// ListByAccount retrieves an account's withdrawals, newest first.
func (r *WithdrawalRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawals
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []*domain.Withdrawal
	for rows.Next() {
		withdrawal, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, withdrawal)
	}

	return withdrawals, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var withdrawal domain.Withdrawal
	var amount pgtype.Numeric
	var timeline []byte

	err := row.Scan(
		&withdrawal.ID,
		&withdrawal.AccountID,
		&amount,
		&withdrawal.Status,
		&withdrawal.Method,
		&withdrawal.PayoutRef,
		&withdrawal.TransactionID,
		&withdrawal.RejectionReason,
		&timeline,
		&withdrawal.Version,
		&withdrawal.CreatedAt,
		&withdrawal.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWithdrawalNotFound
	}
	if err != nil {
		return nil, err
	}

	withdrawal.Amount = numericToDecimal(amount)
	if timeline != nil {
		_ = json.Unmarshal(timeline, &withdrawal.Timeline)
	}

	return &withdrawal, nil
}
