package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/infrastructure/metrics"
)

// WithdrawalUseCase handles the withdrawal settlement workflow.
type WithdrawalUseCase struct {
	txManager      TransactionManager
	withdrawalRepo WithdrawalRepository
	accountRepo    AccountRepository
	recorder       *Recorder
	outboxRepo     OutboxRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	metrics        *metrics.Metrics
	retrier        Retrier
}

// NewWithdrawalUseCase creates a new WithdrawalUseCase.
func NewWithdrawalUseCase(
	txManager TransactionManager,
	withdrawalRepo WithdrawalRepository,
	accountRepo AccountRepository,
	recorder *Recorder,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		txManager:      txManager,
		withdrawalRepo: withdrawalRepo,
		accountRepo:    accountRepo,
		recorder:       recorder,
		outboxRepo:     outboxRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		metrics:        metrics,
	}
}

// WithRetrier enables retry of transitions on transient database errors.
func (uc *WithdrawalUseCase) WithRetrier(retrier Retrier) *WithdrawalUseCase {
	uc.retrier = retrier
	return uc
}

// RequestWithdrawalInput represents input for requesting a withdrawal.
type RequestWithdrawalInput struct {
	AccountID string
	Amount    decimal.Decimal
	Method    string
	PayoutRef string
}

// RequestWithdrawal creates a pending withdrawal. The balance is checked
// here for early feedback and re-checked under lock at settlement, since
// it may change in between. No ledger effect yet.
func (uc *WithdrawalUseCase) RequestWithdrawal(ctx context.Context, input RequestWithdrawalInput) (*domain.Withdrawal, error) {
	// Members may only withdraw from their own wallet. The account ID in
	// the request body is not trusted.
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != input.AccountID {
		return nil, domain.ErrForbidden
	}

	if err := domain.ValidateWithdrawalAmount(input.Amount); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if err := account.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	withdrawal := &domain.Withdrawal{
		ID:        uc.idGen.Generate(),
		AccountID: input.AccountID,
		Amount:    input.Amount,
		Status:    domain.WithdrawalStatusPending,
		Method:    input.Method,
		PayoutRef: input.PayoutRef,
		Timeline:  domain.Timeline{}.Append(string(domain.WithdrawalStatusPending), domain.ActorID(ctx), "", now),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       domain.ActorID(ctx),
			Action:       string(domain.AuditActionWithdrawalRequest),
			ResourceType: domain.AggregateTypeWithdrawal,
			ResourceID:   withdrawal.ID,
			AfterState:   domain.MarshalState(withdrawal),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalsRequested.Inc()
	}

	return withdrawal, nil
}

// TransitionWithdrawalInput represents a reviewer-driven status change.
type TransitionWithdrawalInput struct {
	WithdrawalID string
	NewStatus    domain.WithdrawalStatus
	Reason       string
}

// TransitionWithdrawal moves a withdrawal through its workflow. Completion
// debits the wallet exactly once; the resulting entry id is stored back on
// the withdrawal and doubles as the settled flag.
func (uc *WithdrawalUseCase) TransitionWithdrawal(ctx context.Context, input TransitionWithdrawalInput) (*domain.Withdrawal, error) {
	if uc.retrier == nil {
		return uc.transition(ctx, input)
	}

	var withdrawal *domain.Withdrawal
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		withdrawal, err = uc.transition(ctx, input)
		return err
	})
	return withdrawal, err
}

func (uc *WithdrawalUseCase) transition(ctx context.Context, input TransitionWithdrawalInput) (*domain.Withdrawal, error) {
	if !input.NewStatus.IsValid() {
		return nil, domain.ErrInvalidTransition
	}
	if input.NewStatus == domain.WithdrawalStatusRejected && input.Reason == "" {
		return nil, domain.ErrReasonRequired
	}

	start := time.Now()
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(txCtx, tx, input.WithdrawalID)
	if err != nil {
		return nil, err
	}

	if withdrawal.Status == input.NewStatus && withdrawal.Status.IsTerminal() {
		return withdrawal, nil
	}

	if !withdrawal.CanTransitionTo(input.NewStatus) {
		return nil, domain.ErrInvalidTransition
	}

	from := withdrawal.Status
	now := time.Now().UTC()
	actor := domain.ActorID(ctx)

	withdrawal.Status = input.NewStatus
	withdrawal.RejectionReason = input.Reason
	withdrawal.Timeline = withdrawal.Timeline.Append(string(input.NewStatus), actor, input.Reason, now)

	var entry *domain.LedgerEntry
	if input.NewStatus == domain.WithdrawalStatusCompleted && !withdrawal.Settled() {
		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, withdrawal.AccountID)
		if err != nil {
			return nil, err
		}

		// Settlement-time balance check: the wallet may have shrunk
		// since the request was made.
		if err := account.ValidateDebit(withdrawal.Amount); err != nil {
			return nil, err
		}

		entry, err = uc.recorder.Record(txCtx, tx, RecordInput{
			Account:     account,
			Type:        domain.EntryTypeWithdrawal,
			Amount:      withdrawal.Amount.Neg(),
			Related:     domain.RelatedEntity{Kind: domain.RelatedWithdrawal, ID: withdrawal.ID},
			Description: "withdrawal payout",
		})
		if err != nil {
			return nil, err
		}

		withdrawal.TransactionID = &entry.ID
	}

	ok, err := uc.withdrawalRepo.UpdateStatus(txCtx, tx, withdrawal, from, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		_ = tx.Rollback(txCtx)
		return uc.withdrawalRepo.GetByID(ctx, input.WithdrawalID)
	}

	eventType := domain.EventTypeWithdrawalRejected
	if input.NewStatus == domain.WithdrawalStatusCompleted {
		eventType = domain.EventTypeWithdrawalSettled
	}
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   withdrawal.ID,
		AggregateType: domain.AggregateTypeWithdrawal,
		EventType:     eventType,
		Payload: map[string]any{
			"withdrawal_id": withdrawal.ID,
			"account_id":    withdrawal.AccountID,
			"status":        string(withdrawal.Status),
			"amount":        withdrawal.Amount.String(),
		},
		CreatedAt: now,
	}
	if entry != nil {
		event.Payload["entry_id"] = entry.ID
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       actor,
			Action:       string(domain.AuditActionWithdrawalTransition),
			ResourceType: domain.AggregateTypeWithdrawal,
			ResourceID:   withdrawal.ID,
			BeforeState:  domain.JSON{"status": string(from)},
			AfterState:   domain.MarshalState(withdrawal),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WithdrawalTransitions.WithLabelValues(string(input.NewStatus)).Inc()
		uc.metrics.TransitionDuration.Observe(time.Since(start).Seconds())
	}

	return withdrawal, nil
}

// CancelWithdrawal cancels a pending withdrawal on behalf of its owner.
func (uc *WithdrawalUseCase) CancelWithdrawal(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	withdrawal, err := uc.withdrawalRepo.GetByIDForUpdate(txCtx, tx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != withdrawal.AccountID {
		return nil, domain.ErrForbidden
	}

	if !withdrawal.Cancellable() {
		return nil, domain.ErrNotCancellable
	}

	from := withdrawal.Status
	now := time.Now().UTC()
	withdrawal.Status = domain.WithdrawalStatusCancelled
	withdrawal.Timeline = withdrawal.Timeline.Append(string(domain.WithdrawalStatusCancelled), domain.ActorID(ctx), "", now)

	ok, err := uc.withdrawalRepo.UpdateStatus(txCtx, tx, withdrawal, from, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		_ = tx.Rollback(txCtx)
		return nil, domain.ErrNotCancellable
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return withdrawal, nil
}

// GetWithdrawal retrieves a withdrawal by ID.
func (uc *WithdrawalUseCase) GetWithdrawal(ctx context.Context, id string) (*domain.Withdrawal, error) {
	withdrawal, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != withdrawal.AccountID {
		return nil, domain.ErrForbidden
	}
	return withdrawal, nil
}

// ListWithdrawalsInput represents input for listing withdrawals.
type ListWithdrawalsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListWithdrawals lists withdrawals for an account.
func (uc *WithdrawalUseCase) ListWithdrawals(ctx context.Context, input ListWithdrawalsInput) ([]*domain.Withdrawal, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	// Members only ever see their own withdrawals.
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember {
		input.AccountID = user.AccountID
	}
	return uc.withdrawalRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
