package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// ProviderCallTimeout bounds the synchronous bill provider call
	ProviderCallTimeout = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// SummaryCacheTTL is how long account earnings summaries are cached
	SummaryCacheTTL = 30 * time.Second
)
