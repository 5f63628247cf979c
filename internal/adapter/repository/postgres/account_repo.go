package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const accountColumns = `id, name, phone, email, wallet_balance, total_earnings, total_withdrawals, version, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Name,
		account.Phone,
		account.Email,
		decimalToNumeric(account.WalletBalance),
		decimalToNumeric(account.TotalEarnings),
		decimalToNumeric(account.TotalWithdrawals),
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateAccount
	}

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByPhoneOrEmail retrieves an account matching the phone or, when email
// is non-empty, the email.
func (r *AccountRepository) GetByPhoneOrEmail(ctx context.Context, phone, email string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE phone = $1 OR ($2 <> '' AND email = $2)
		LIMIT 1
	`

	return scanAccount(r.pool.QueryRow(ctx, query, phone, email))
}

// GetByIDForUpdate retrieves an account by ID with a row lock, inside the
// given transaction.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	return scanAccount(pgxTx.QueryRow(ctx, query, id))
}

// UpdateBalances persists the account's balance aggregates inside the
// given transaction. The caller holds the row lock, so the version is
// written as-is rather than compare-and-swapped.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE accounts
		SET wallet_balance = $2, total_earnings = $3, total_withdrawals = $4, version = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		account.ID,
		decimalToNumeric(account.WalletBalance),
		decimalToNumeric(account.TotalEarnings),
		decimalToNumeric(account.TotalWithdrawals),
		account.Version,
		updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	account.UpdatedAt = updatedAt

	return nil
}

// List retrieves accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var walletBalance, totalEarnings, totalWithdrawals pgtype.Numeric

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Phone,
		&account.Email,
		&walletBalance,
		&totalEarnings,
		&totalWithdrawals,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	account.WalletBalance = numericToDecimal(walletBalance)
	account.TotalEarnings = numericToDecimal(totalEarnings)
	account.TotalWithdrawals = numericToDecimal(totalWithdrawals)

	return &account, nil
}
