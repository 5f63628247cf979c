package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		debitAmount decimal.Decimal
		expectError bool
	}{
		{
			name:        "debit less than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(50),
		},
		{
			name:        "debit exact balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(100),
		},
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(150),
			expectError: true,
		},
		{
			name:        "debit from empty wallet",
			balance:     decimal.Zero,
			debitAmount: decimal.NewFromInt(1),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{WalletBalance: tt.balance}
			err := acc.ValidateDebit(tt.debitAmount)
			if tt.expectError && !errors.Is(err, ErrInsufficientBalance) {
				t.Errorf("expected ErrInsufficientBalance, got %v", err)
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ApplyCreditDebit(t *testing.T) {
	acc := &Account{WalletBalance: decimal.NewFromInt(1000)}

	if got := acc.ApplyCredit(decimal.NewFromInt(200)); !got.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected 1200, got %s", got)
	}
	if got := acc.ApplyDebit(decimal.NewFromInt(400)); !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected 600, got %s", got)
	}
	// Apply helpers never mutate the account.
	if !acc.WalletBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected balance unchanged at 1000, got %s", acc.WalletBalance)
	}
}
