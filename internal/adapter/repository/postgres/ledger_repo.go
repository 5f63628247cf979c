package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sambhav/earnings/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// FindImbalances returns accounts whose wallet balance disagrees with the
// sum of their completed ledger entries.
func (r *LedgerRepository) FindImbalances(ctx context.Context) ([]domain.Imbalance, error) {
	query := `
		SELECT a.id, a.wallet_balance, COALESCE(SUM(e.amount), 0) AS entry_sum
		FROM accounts a
		LEFT JOIN ledger_entries e ON e.account_id = a.id AND e.status = $1
		GROUP BY a.id, a.wallet_balance
		HAVING a.wallet_balance <> COALESCE(SUM(e.amount), 0)
		ORDER BY a.id
	`

	rows, err := r.pool.Query(ctx, query, domain.EntryStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imbalances []domain.Imbalance
	for rows.Next() {
		var im domain.Imbalance
		var balance, sum pgtype.Numeric

		if err := rows.Scan(&im.AccountID, &balance, &sum); err != nil {
			return nil, err
		}

		im.WalletBalance = numericToDecimal(balance)
		im.EntrySum = numericToDecimal(sum)
		imbalances = append(imbalances, im)
	}

	return imbalances, rows.Err()
}
