package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a balance-affecting event.
type EntryType string

const (
	EntryTypeLeadCommission EntryType = "lead_commission"
	EntryTypeReferralBonus  EntryType = "referral_bonus"
	EntryTypeBonusCampaign  EntryType = "bonus_campaign"
	EntryTypeWithdrawal     EntryType = "withdrawal"
	EntryTypeRefund         EntryType = "refund"
)

// IsEarning reports whether the type counts toward lifetime earnings.
func (t EntryType) IsEarning() bool {
	switch t {
	case EntryTypeLeadCommission, EntryTypeReferralBonus, EntryTypeBonusCampaign:
		return true
	}
	return false
}

// EntryStatus is the settlement status of a ledger entry.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusFailed    EntryStatus = "failed"
	EntryStatusCancelled EntryStatus = "cancelled"
)

// RelatedKind discriminates the entity family a ledger entry points back at.
type RelatedKind string

const (
	RelatedLead        RelatedKind = "lead"
	RelatedWithdrawal  RelatedKind = "withdrawal"
	RelatedApplication RelatedKind = "application"
	RelatedBillPayment RelatedKind = "bill_payment"
)

// RelatedEntity is a tagged back-reference to the entity that caused an
// entry. Lookup only, never an ownership reference.
type RelatedEntity struct {
	Kind RelatedKind `json:"kind"`
	ID   string      `json:"id"`
}

// LedgerEntry is an immutable record of a single wallet balance change.
// Amount is signed: positive credits, negative debits. BalanceBefore and
// BalanceAfter are snapshots taken at write time, never recomputed.
type LedgerEntry struct {
	ID            string
	AccountID     string
	Type          EntryType
	Amount        decimal.Decimal
	Status        EntryStatus
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Related       RelatedEntity
	Description   string
	CreatedAt     time.Time
}
