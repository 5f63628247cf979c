package domain

import "time"

// Event types
const (
	EventTypeLeadSubmitted       = "lead.submitted"
	EventTypeLeadStatusChanged   = "lead.status_changed"
	EventTypeCommissionCredited  = "commission.credited"
	EventTypeWithdrawalRequested = "withdrawal.requested"
	EventTypeWithdrawalSettled   = "withdrawal.settled"
	EventTypeWithdrawalRejected  = "withdrawal.rejected"
	EventTypeApplicationUpdated  = "application.status_changed"
	EventTypeBillPaymentFinished = "bill_payment.finished"
)

// Aggregate types
const (
	AggregateTypeLead        = "lead"
	AggregateTypeWithdrawal  = "withdrawal"
	AggregateTypeApplication = "application"
	AggregateTypeBillPayment = "bill_payment"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents a notification to be delivered. Events are written
// in the same transaction as the status change they describe; delivery is
// asynchronous and its failure never rolls the change back.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CommissionCreditedEvent payload
type CommissionCreditedEvent struct {
	AccountID string `json:"account_id"`
	EntryID   string `json:"entry_id"`
	Amount    string `json:"amount"`
	Related   string `json:"related"`
}

// WithdrawalSettledEvent payload
type WithdrawalSettledEvent struct {
	WithdrawalID string `json:"withdrawal_id"`
	AccountID    string `json:"account_id"`
	Amount       string `json:"amount"`
	EntryID      string `json:"entry_id"`
}
