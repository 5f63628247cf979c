package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadStatus is the lifecycle state of a referred lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusInReview  LeadStatus = "in_review"
	LeadStatusApproved  LeadStatus = "approved"
	LeadStatusRejected  LeadStatus = "rejected"
	LeadStatusCancelled LeadStatus = "cancelled"
)

var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:      {LeadStatusInReview, LeadStatusApproved, LeadStatusRejected, LeadStatusCancelled},
	LeadStatusInReview: {LeadStatusApproved, LeadStatusRejected, LeadStatusCancelled},
}

// IsTerminal reports whether no further transitions are allowed.
func (s LeadStatus) IsTerminal() bool {
	return len(leadTransitions[s]) == 0
}

// IsValid reports whether s is a known lead status.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusInReview, LeadStatusApproved, LeadStatusRejected, LeadStatusCancelled:
		return true
	}
	return false
}

// CommissionState marks whether the ledger credit for an entity has fired.
type CommissionState string

const (
	CommissionPending  CommissionState = "pending"
	CommissionCredited CommissionState = "credited"
)

// Lead is a referred customer for a catalog product. Approval credits the
// referrer's wallet with the lead's commission exactly once.
type Lead struct {
	ID               string
	AccountID        string
	ProductID        string
	CustomerName     string
	CustomerPhone    string
	Status           LeadStatus
	CommissionAmount decimal.Decimal
	CommissionStatus CommissionState
	RejectionReason  string
	Timeline         Timeline
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransitionTo reports whether next is reachable from the current status.
func (l *Lead) CanTransitionTo(next LeadStatus) bool {
	return canTransition(leadTransitions[l.Status], next)
}

// Cancellable reports whether the owner may still cancel the lead.
// Only pre-credit, non-terminal states qualify.
func (l *Lead) Cancellable() bool {
	return !l.Status.IsTerminal() && l.CommissionStatus != CommissionCredited
}

// CreditState is the status that triggers the commission payout.
func (l *Lead) CreditState() LeadStatus {
	return LeadStatusApproved
}

func canTransition[S ~string](allowed []S, next S) bool {
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}
