package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillPaymentStatus is the lifecycle state of a bill payment.
// A payment is never left processing: a provider error or timeout moves it
// to failed.
type BillPaymentStatus string

const (
	BillPaymentProcessing BillPaymentStatus = "processing"
	BillPaymentSuccess    BillPaymentStatus = "success"
	BillPaymentFailed     BillPaymentStatus = "failed"
)

// BillPayment is a synchronous payment to an external bill provider.
type BillPayment struct {
	ID            string
	AccountID     string
	ServiceType   string
	ProviderCode  string
	AccountNumber string
	Amount        decimal.Decimal
	Status        BillPaymentStatus
	ProviderTxID  string
	FailureReason string
	Timeline      Timeline
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates a new bill payment.
func (b *BillPayment) Validate() error {
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ProviderResult is the outcome reported by the external bill provider.
type ProviderResult struct {
	Success      bool
	ProviderTxID string
	Message      string
}
