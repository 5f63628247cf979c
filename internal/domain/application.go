package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus is the lifecycle state of a product application.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusInReview  ApplicationStatus = "in_review"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCompleted ApplicationStatus = "completed"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusSubmitted: {ApplicationStatusInReview, ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusCancelled},
	ApplicationStatusInReview:  {ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusCancelled},
	ApplicationStatusApproved:  {ApplicationStatusCompleted},
}

// IsTerminal reports whether no further transitions are allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

// IsValid reports whether s is a known application status.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusInReview, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusCompleted, ApplicationStatusCancelled:
		return true
	}
	return false
}

// Application is a financial-product or CA-service application submitted
// on behalf of a referred customer. Approval credits the referrer with the
// product's commission on the application amount, exactly once.
type Application struct {
	ID               string
	AccountID        string
	ProductID        string
	CustomerName     string
	Amount           decimal.Decimal
	Status           ApplicationStatus
	CommissionStatus CommissionState
	RejectionReason  string
	DocumentURLs     []string
	Timeline         Timeline
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate validates a new application.
func (a *Application) Validate() error {
	if a.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// CanTransitionTo reports whether next is reachable from the current status.
func (a *Application) CanTransitionTo(next ApplicationStatus) bool {
	return canTransition(applicationTransitions[a.Status], next)
}

// Cancellable reports whether the owner may still cancel the application.
func (a *Application) Cancellable() bool {
	switch a.Status {
	case ApplicationStatusSubmitted, ApplicationStatusInReview:
		return a.CommissionStatus != CommissionCredited
	}
	return false
}
