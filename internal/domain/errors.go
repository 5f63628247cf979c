package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateAccount    = errors.New("account with this phone or email already exists")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// Ledger errors
	ErrEntryNotFound = errors.New("ledger entry not found")
	ErrInvalidAmount = errors.New("amount must be positive")

	// Workflow errors
	ErrLeadNotFound        = errors.New("lead not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrBillPaymentNotFound = errors.New("bill payment not found")
	ErrInvalidTransition   = errors.New("status transition not allowed from current state")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrNotCancellable      = errors.New("entity can no longer be cancelled")
	ErrInvalidOperation    = errors.New("operation not valid for this entity")

	// Catalog errors
	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not active")
	ErrInvalidCommission = errors.New("invalid commission configuration")

	// Provider errors
	ErrProviderFailed = errors.New("payment provider rejected or timed out")
)
