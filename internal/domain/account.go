package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a user's earnings account. The three balance fields
// are owned by the ledger recorder: nothing else may mutate them.
type Account struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	WalletBalance    decimal.Decimal
	TotalEarnings    decimal.Decimal
	TotalWithdrawals decimal.Decimal
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateDebit checks if the wallet can absorb a debit of amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.WalletBalance.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}

// ApplyCredit returns the wallet balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.WalletBalance.Add(amount)
}

// ApplyDebit returns the wallet balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.WalletBalance.Sub(amount)
}
