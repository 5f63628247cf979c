package domain

import "github.com/shopspring/decimal"

// Imbalance reports an account whose wallet balance disagrees with the
// sum of its completed ledger entries.
type Imbalance struct {
	AccountID     string
	WalletBalance decimal.Decimal
	EntrySum      decimal.Decimal
}

// Difference returns wallet balance minus entry sum.
func (i Imbalance) Difference() decimal.Decimal {
	return i.WalletBalance.Sub(i.EntrySum)
}
