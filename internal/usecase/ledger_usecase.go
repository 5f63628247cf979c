package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
)

// LedgerUseCase handles ledger queries, manual adjustments and
// consistency checks.
type LedgerUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	recorder    *Recorder
	auditRepo   AuditRepository
	idGen       IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	recorder *Recorder,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		recorder:    recorder,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// GetEntry retrieves a ledger entry by ID.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntriesInput represents input for listing an account's entries.
type ListEntriesInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListEntries lists an account's ledger entries, newest first.
func (uc *LedgerUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.LedgerEntry, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != input.AccountID {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}
	return uc.entryRepo.GetByAccount(ctx, input.AccountID, limit, offset)
}

// ListEntriesByRelated lists the entries produced by a source entity, e.g.
// the commission credited for a lead.
func (uc *LedgerUseCase) ListEntriesByRelated(ctx context.Context, kind domain.RelatedKind, id string) ([]*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByRelated(ctx, kind, id)
}

// RecordAdjustmentInput represents a manual ledger adjustment.
type RecordAdjustmentInput struct {
	AccountID   string
	Type        domain.EntryType
	Amount      decimal.Decimal
	Description string
}

// RecordAdjustment writes a manual bonus or refund entry against an
// account. The entry goes through the same recorder as workflow credits,
// so balance snapshots and aggregates stay consistent.
func (uc *LedgerUseCase) RecordAdjustment(ctx context.Context, input RecordAdjustmentInput) (*domain.LedgerEntry, error) {
	switch input.Type {
	case domain.EntryTypeBonusCampaign, domain.EntryTypeRefund:
	default:
		return nil, domain.ErrInvalidOperation
	}
	if input.Amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Description == "" {
		return nil, domain.ErrReasonRequired
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(txCtx)
	}()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.recorder.Record(txCtx, tx, RecordInput{
		Account:     account,
		Type:        input.Type,
		Amount:      input.Amount,
		Related:     domain.RelatedEntity{},
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       domain.ActorID(ctx),
			Action:       string(domain.AuditActionAdjustmentRecord),
			ResourceType: domain.AggregateTypeAccount,
			ResourceID:   account.ID,
			AfterState:   domain.MarshalState(entry),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// CheckConsistency reports accounts whose wallet balance has drifted from
// the sum of their completed entries. An empty slice means the ledger is
// consistent.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) ([]domain.Imbalance, error) {
	return uc.ledgerRepo.FindImbalances(ctx)
}
