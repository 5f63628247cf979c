package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
)

// AccountRepository defines data access for earnings accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByPhoneOrEmail(ctx context.Context, phone, email string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalances(ctx context.Context, tx Transaction, account *domain.Account, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	GetByRelated(ctx context.Context, kind domain.RelatedKind, id string) ([]*domain.LedgerEntry, error)
	SumCompletedByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LeadRepository defines data access for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Lead, error)
	// UpdateStatus persists the lead's status, reason, commission state and
	// timeline, guarded by "WHERE status = from". Returns false when the
	// guard matched zero rows (a concurrent transition won).
	UpdateStatus(ctx context.Context, tx Transaction, lead *domain.Lead, from domain.LeadStatus, updatedAt time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Lead, error)
	List(ctx context.Context, status domain.LeadStatus, limit, offset int) ([]*domain.Lead, error)
}

// WithdrawalRepository defines data access for withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) error
	GetByID(ctx context.Context, id string) (*domain.Withdrawal, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Withdrawal, error)
	UpdateStatus(ctx context.Context, tx Transaction, withdrawal *domain.Withdrawal, from domain.WithdrawalStatus, updatedAt time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Withdrawal, error)
}

// ApplicationRepository defines data access for product applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, tx Transaction, app *domain.Application, from domain.ApplicationStatus, updatedAt time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Application, error)
}

// BillPaymentRepository defines data access for bill payments.
type BillPaymentRepository interface {
	Create(ctx context.Context, payment *domain.BillPayment) error
	GetByID(ctx context.Context, id string) (*domain.BillPayment, error)
	UpdateStatus(ctx context.Context, payment *domain.BillPayment, from domain.BillPaymentStatus, updatedAt time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.BillPayment, error)
}

// ProductRepository defines data access for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error)
}

// LedgerRepository defines ledger-wide consistency queries.
type LedgerRepository interface {
	// FindImbalances returns accounts whose wallet balance does not equal
	// the sum of their completed ledger entries.
	FindImbalances(ctx context.Context) ([]domain.Imbalance, error)
}

// OutboxRepository defines data access for notification outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PaymentProvider is the external bill/payment gateway. Calls are
// synchronous; callers bound them with a context timeout.
type PaymentProvider interface {
	ProcessPayment(ctx context.Context, input ProviderPaymentInput) (*domain.ProviderResult, error)
}

// ProviderPaymentInput is the request sent to the external provider.
type ProviderPaymentInput struct {
	ServiceType   string
	ProviderCode  string
	AccountNumber string
	Amount        decimal.Decimal
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient failures such as deadlocks
// and serialization errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
