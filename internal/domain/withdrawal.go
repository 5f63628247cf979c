package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the lifecycle state of a payout request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
	WithdrawalStatusCancelled  WithdrawalStatus = "cancelled"
)

var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalStatusPending:    {WithdrawalStatusProcessing, WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusCancelled},
	WithdrawalStatusProcessing: {WithdrawalStatusCompleted, WithdrawalStatusRejected},
}

// IsTerminal reports whether no further transitions are allowed.
func (s WithdrawalStatus) IsTerminal() bool {
	return len(withdrawalTransitions[s]) == 0
}

// IsValid reports whether s is a known withdrawal status.
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusProcessing, WithdrawalStatusCompleted,
		WithdrawalStatusRejected, WithdrawalStatusCancelled:
		return true
	}
	return false
}

// Withdrawal is a request to move wallet funds out of the system.
// The debit fires on completion; TransactionID holds the resulting ledger
// entry id and doubles as the credit-fired flag.
type Withdrawal struct {
	ID              string
	AccountID       string
	Amount          decimal.Decimal
	Status          WithdrawalStatus
	Method          string
	PayoutRef       string
	TransactionID   *string
	RejectionReason string
	Timeline        Timeline
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate validates a new withdrawal request.
func (w *Withdrawal) Validate() error {
	if w.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// CanTransitionTo reports whether next is reachable from the current status.
func (w *Withdrawal) CanTransitionTo(next WithdrawalStatus) bool {
	return canTransition(withdrawalTransitions[w.Status], next)
}

// Settled reports whether the ledger debit has already fired.
func (w *Withdrawal) Settled() bool {
	return w.TransactionID != nil
}

// Cancellable reports whether the owner may still cancel the request.
func (w *Withdrawal) Cancellable() bool {
	return w.Status == WithdrawalStatusPending && !w.Settled()
}
