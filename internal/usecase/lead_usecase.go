package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/infrastructure/metrics"
)

// LeadUseCase handles the lead approval workflow.
type LeadUseCase struct {
	txManager   TransactionManager
	leadRepo    LeadRepository
	accountRepo AccountRepository
	productRepo ProductRepository
	recorder    *Recorder
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	retrier     Retrier
}

// NewLeadUseCase creates a new LeadUseCase.
func NewLeadUseCase(
	txManager TransactionManager,
	leadRepo LeadRepository,
	accountRepo AccountRepository,
	productRepo ProductRepository,
	recorder *Recorder,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LeadUseCase {
	return &LeadUseCase{
		txManager:   txManager,
		leadRepo:    leadRepo,
		accountRepo: accountRepo,
		productRepo: productRepo,
		recorder:    recorder,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// WithRetrier enables retry of transitions on transient database errors.
func (uc *LeadUseCase) WithRetrier(retrier Retrier) *LeadUseCase {
	uc.retrier = retrier
	return uc
}

// SubmitLeadInput represents input for submitting a lead.
type SubmitLeadInput struct {
	AccountID     string
	ProductID     string
	CustomerName  string
	CustomerPhone string
	DealAmount    decimal.Decimal
}

// SubmitLead creates a lead in its initial state. The commission figure is
// fixed at submission from the product's scheme; approval credits exactly
// that amount.
func (uc *LeadUseCase) SubmitLead(ctx context.Context, input SubmitLeadInput) (*domain.Lead, error) {
	// Members may only submit leads under their own account.
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != input.AccountID {
		return nil, domain.ErrForbidden
	}

	if err := domain.ValidateName(input.CustomerName); err != nil {
		return nil, err
	}
	if err := domain.ValidatePhone(input.CustomerPhone); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}

	commission, err := domain.ComputeCommission(input.DealAmount, product.Commission)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		ID:               uc.idGen.Generate(),
		AccountID:        input.AccountID,
		ProductID:        input.ProductID,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		Status:           domain.LeadStatusNew,
		CommissionAmount: commission,
		CommissionStatus: domain.CommissionPending,
		Timeline:         domain.Timeline{}.Append(string(domain.LeadStatusNew), domain.ActorID(ctx), "", now),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       domain.ActorID(ctx),
			Action:       string(domain.AuditActionLeadSubmit),
			ResourceType: domain.AggregateTypeLead,
			ResourceID:   lead.ID,
			AfterState:   domain.MarshalState(lead),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	if uc.metrics != nil {
		uc.metrics.LeadsSubmitted.Inc()
	}

	return lead, nil
}

// TransitionLeadInput represents a reviewer-driven status change.
type TransitionLeadInput struct {
	LeadID    string
	NewStatus domain.LeadStatus
	Reason    string
}

// TransitionLead moves a lead through the approval workflow. Entering the
// approved state credits the referrer's wallet at most once: the
// commission flag is checked under a row lock and the status write is
// guarded by the previous status, so the loser of a concurrent transition
// takes the idempotent no-op path.
func (uc *LeadUseCase) TransitionLead(ctx context.Context, input TransitionLeadInput) (*domain.Lead, error) {
	if uc.retrier == nil {
		return uc.transition(ctx, input)
	}

	var lead *domain.Lead
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		lead, err = uc.transition(ctx, input)
		return err
	})
	return lead, err
}

func (uc *LeadUseCase) transition(ctx context.Context, input TransitionLeadInput) (*domain.Lead, error) {
	if !input.NewStatus.IsValid() {
		return nil, domain.ErrInvalidTransition
	}
	if input.NewStatus == domain.LeadStatusRejected && input.Reason == "" {
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

	lead, err := uc.leadRepo.GetByIDForUpdate(txCtx, tx, input.LeadID)
	if err != nil {
		return nil, err
	}

	// Re-applying a terminal state the lead already holds is a no-op
	// success. Guarded by the commission flag, not the status string.
	if lead.Status == input.NewStatus && lead.Status.IsTerminal() {
		return lead, nil
	}

	if !lead.CanTransitionTo(input.NewStatus) {
		return nil, domain.ErrInvalidTransition
	}

	from := lead.Status
	now := time.Now().UTC()
	actor := domain.ActorID(ctx)

	lead.Status = input.NewStatus
	lead.RejectionReason = input.Reason
	lead.Timeline = lead.Timeline.Append(string(input.NewStatus), actor, input.Reason, now)

	var entry *domain.LedgerEntry
	if input.NewStatus == lead.CreditState() && lead.CommissionStatus != domain.CommissionCredited {
		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, lead.AccountID)
		if err != nil {
			return nil, err
		}

		entry, err = uc.recorder.Record(txCtx, tx, RecordInput{
			Account:     account,
			Type:        domain.EntryTypeLeadCommission,
			Amount:      lead.CommissionAmount,
			Related:     domain.RelatedEntity{Kind: domain.RelatedLead, ID: lead.ID},
			Description: "lead commission",
		})
		if err != nil {
			return nil, err
		}

		lead.CommissionStatus = domain.CommissionCredited
	}

	ok, err := uc.leadRepo.UpdateStatus(txCtx, tx, lead, from, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A concurrent transition won the race. The deferred rollback
		// discards any entry written above; report the current state.
		_ = tx.Rollback(txCtx)
		return uc.leadRepo.GetByID(ctx, input.LeadID)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   lead.ID,
		AggregateType: domain.AggregateTypeLead,
		EventType:     domain.EventTypeLeadStatusChanged,
		Payload: map[string]any{
			"lead_id":    lead.ID,
			"account_id": lead.AccountID,
			"status":     string(lead.Status),
		},
		CreatedAt: now,
	}
	if entry != nil {
		event.EventType = domain.EventTypeCommissionCredited
		event.Payload["entry_id"] = entry.ID
		event.Payload["amount"] = entry.Amount.String()
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       actor,
			Action:       string(domain.AuditActionLeadTransition),
			ResourceType: domain.AggregateTypeLead,
			ResourceID:   lead.ID,
			BeforeState:  domain.JSON{"status": string(from)},
			AfterState:   domain.MarshalState(lead),
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
		uc.metrics.LeadTransitions.WithLabelValues(string(input.NewStatus)).Inc()
		uc.metrics.TransitionDuration.Observe(time.Since(start).Seconds())
		if entry != nil {
			uc.metrics.CommissionsCredited.Inc()
		}
	}

	return lead, nil
}

// CancelLead cancels a lead on behalf of its owner. Allowed only from
// pre-credit, non-terminal states; no ledger effect.
func (uc *LeadUseCase) CancelLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	lead, err := uc.leadRepo.GetByIDForUpdate(txCtx, tx, leadID)
	if err != nil {
		return nil, err
	}

	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != lead.AccountID {
		return nil, domain.ErrForbidden
	}

	if !lead.Cancellable() {
		return nil, domain.ErrNotCancellable
	}

	from := lead.Status
	now := time.Now().UTC()
	lead.Status = domain.LeadStatusCancelled
	lead.Timeline = lead.Timeline.Append(string(domain.LeadStatusCancelled), domain.ActorID(ctx), "", now)

	ok, err := uc.leadRepo.UpdateStatus(txCtx, tx, lead, from, now)
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

	return lead, nil
}

// GetLead retrieves a lead by ID.
func (uc *LeadUseCase) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := uc.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != lead.AccountID {
		return nil, domain.ErrForbidden
	}
	return lead, nil
}

// ListLeadsInput represents input for listing leads.
type ListLeadsInput struct {
	AccountID string
	Status    domain.LeadStatus
	Limit     int
	Offset    int
}

// ListLeads lists leads, by account when AccountID is set.
func (uc *LeadUseCase) ListLeads(ctx context.Context, input ListLeadsInput) ([]*domain.Lead, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)

	// Members only ever see their own leads.
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember {
		input.AccountID = user.AccountID
	}

	if input.AccountID != "" {
		return uc.leadRepo.ListByAccount(ctx, input.AccountID, limit, offset)
	}

	return uc.leadRepo.List(ctx, input.Status, limit, offset)
}
