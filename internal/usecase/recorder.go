package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
)

// Recorder appends ledger entries and is the only code path that mutates
// an account's balance fields. It always runs inside the caller's
// transaction, with the account row already locked FOR UPDATE, so the
// entry and the balance update commit or roll back as one unit.
type Recorder struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewRecorder creates a new Recorder.
func NewRecorder(accountRepo AccountRepository, entryRepo EntryRepository, idGen IDGenerator) *Recorder {
	return &Recorder{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// RecordInput describes a single balance change. Amount is signed:
// positive credits the wallet, negative debits it.
type RecordInput struct {
	Account     *domain.Account
	Type        domain.EntryType
	Amount      decimal.Decimal
	Related     domain.RelatedEntity
	Description string
}

// Record writes one ledger entry and applies it to the account.
// BalanceBefore/BalanceAfter are snapshots of the locked account's wallet;
// a debit that would drive the wallet negative fails with
// ErrInsufficientBalance and leaves both untouched.
func (r *Recorder) Record(ctx context.Context, tx Transaction, input RecordInput) (*domain.LedgerEntry, error) {
	account := input.Account
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	if input.Amount.IsNegative() {
		if err := account.ValidateDebit(input.Amount.Neg()); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	balanceBefore := account.WalletBalance
	balanceAfter := balanceBefore.Add(input.Amount)

	entry := &domain.LedgerEntry{
		ID:            r.idGen.Generate(),
		AccountID:     account.ID,
		Type:          input.Type,
		Amount:        input.Amount,
		Status:        domain.EntryStatusCompleted,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Related:       input.Related,
		Description:   input.Description,
		CreatedAt:     now,
	}

	if err := r.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	account.WalletBalance = balanceAfter
	if input.Type.IsEarning() {
		account.TotalEarnings = account.TotalEarnings.Add(input.Amount)
	}
	if input.Type == domain.EntryTypeWithdrawal {
		account.TotalWithdrawals = account.TotalWithdrawals.Add(input.Amount.Abs())
	}
	account.Version++

	if err := r.accountRepo.UpdateBalances(ctx, tx, account, now); err != nil {
		return nil, err
	}

	return entry, nil
}
