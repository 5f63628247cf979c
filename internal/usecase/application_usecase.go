package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/infrastructure/metrics"
)

// ApplicationUseCase handles the product application workflow (SIP, mutual
// fund, insurance, loan and CA-service applications share one lifecycle).
type ApplicationUseCase struct {
	txManager   TransactionManager
	appRepo     ApplicationRepository
	accountRepo AccountRepository
	productRepo ProductRepository
	recorder    *Recorder
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
	retrier     Retrier
}

// NewApplicationUseCase creates a new ApplicationUseCase.
func NewApplicationUseCase(
	txManager TransactionManager,
	appRepo ApplicationRepository,
	accountRepo AccountRepository,
	productRepo ProductRepository,
	recorder *Recorder,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ApplicationUseCase {
	return &ApplicationUseCase{
		txManager:   txManager,
		appRepo:     appRepo,
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
func (uc *ApplicationUseCase) WithRetrier(retrier Retrier) *ApplicationUseCase {
	uc.retrier = retrier
	return uc
}

// SubmitApplicationInput represents input for submitting an application.
type SubmitApplicationInput struct {
	AccountID    string
	ProductID    string
	CustomerName string
	Amount       decimal.Decimal
	DocumentURLs []string
}

// SubmitApplication creates an application in its initial state. Only the
// document store URLs are kept, never the bytes.
func (uc *ApplicationUseCase) SubmitApplication(ctx context.Context, input SubmitApplicationInput) (*domain.Application, error) {
	// Members may only submit applications under their own account.
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != input.AccountID {
		return nil, domain.ErrForbidden
	}

	if err := domain.ValidateName(input.CustomerName); err != nil {
		return nil, err
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
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
	if product.Commission.MinAmount != nil && input.Amount.LessThan(*product.Commission.MinAmount) {
		return nil, domain.ErrAmountTooSmall
	}
	if product.Commission.MaxAmount != nil && input.Amount.GreaterThan(*product.Commission.MaxAmount) {
		return nil, domain.ErrAmountTooLarge
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:               uc.idGen.Generate(),
		AccountID:        input.AccountID,
		ProductID:        input.ProductID,
		CustomerName:     input.CustomerName,
		Amount:           input.Amount,
		Status:           domain.ApplicationStatusSubmitted,
		CommissionStatus: domain.CommissionPending,
		DocumentURLs:     input.DocumentURLs,
		Timeline:         domain.Timeline{}.Append(string(domain.ApplicationStatusSubmitted), domain.ActorID(ctx), "", now),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       domain.ActorID(ctx),
			Action:       string(domain.AuditActionApplicationSubmit),
			ResourceType: domain.AggregateTypeApplication,
			ResourceID:   app.ID,
			AfterState:   domain.MarshalState(app),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	if uc.metrics != nil {
		uc.metrics.ApplicationsSubmitted.WithLabelValues(string(product.Kind)).Inc()
	}

	return app, nil
}

// TransitionApplicationInput represents a reviewer-driven status change.
type TransitionApplicationInput struct {
	ApplicationID string
	NewStatus     domain.ApplicationStatus
	Reason        string
}

// TransitionApplication moves an application through its workflow.
// Approval computes the commission from the product's scheme against the
// application amount and credits it at most once.
func (uc *ApplicationUseCase) TransitionApplication(ctx context.Context, input TransitionApplicationInput) (*domain.Application, error) {
	if uc.retrier == nil {
		return uc.transition(ctx, input)
	}

	var app *domain.Application
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		app, err = uc.transition(ctx, input)
		return err
	})
	return app, err
}

func (uc *ApplicationUseCase) transition(ctx context.Context, input TransitionApplicationInput) (*domain.Application, error) {
	if !input.NewStatus.IsValid() {
		return nil, domain.ErrInvalidTransition
	}
	if input.NewStatus == domain.ApplicationStatusRejected && input.Reason == "" {
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

	app, err := uc.appRepo.GetByIDForUpdate(txCtx, tx, input.ApplicationID)
	if err != nil {
		return nil, err
	}

	if app.Status == input.NewStatus && app.Status.IsTerminal() {
		return app, nil
	}
	// Approved is not terminal (it still moves to completed), so a
	// retried approve is detected through the credit flag instead.
	if app.Status == input.NewStatus && input.NewStatus == domain.ApplicationStatusApproved && app.CommissionStatus == domain.CommissionCredited {
		return app, nil
	}

	if !app.CanTransitionTo(input.NewStatus) {
		return nil, domain.ErrInvalidTransition
	}

	from := app.Status
	now := time.Now().UTC()
	actor := domain.ActorID(ctx)

	app.Status = input.NewStatus
	app.RejectionReason = input.Reason
	app.Timeline = app.Timeline.Append(string(input.NewStatus), actor, input.Reason, now)

	var entry *domain.LedgerEntry
	if input.NewStatus == domain.ApplicationStatusApproved && app.CommissionStatus != domain.CommissionCredited {
		product, err := uc.productRepo.GetByID(txCtx, app.ProductID)
		if err != nil {
			return nil, err
		}

		commission, err := domain.ComputeCommission(app.Amount, product.Commission)
		if err != nil {
			return nil, err
		}

		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, app.AccountID)
		if err != nil {
			return nil, err
		}

		entry, err = uc.recorder.Record(txCtx, tx, RecordInput{
			Account:     account,
			Type:        domain.EntryTypeReferralBonus,
			Amount:      commission,
			Related:     domain.RelatedEntity{Kind: domain.RelatedApplication, ID: app.ID},
			Description: "application commission",
		})
		if err != nil {
			return nil, err
		}

		app.CommissionStatus = domain.CommissionCredited
	}

	ok, err := uc.appRepo.UpdateStatus(txCtx, tx, app, from, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		_ = tx.Rollback(txCtx)
		return uc.appRepo.GetByID(ctx, input.ApplicationID)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   app.ID,
		AggregateType: domain.AggregateTypeApplication,
		EventType:     domain.EventTypeApplicationUpdated,
		Payload: map[string]any{
			"application_id": app.ID,
			"account_id":     app.AccountID,
			"status":         string(app.Status),
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
			Action:       string(domain.AuditActionApplicationTransition),
			ResourceType: domain.AggregateTypeApplication,
			ResourceID:   app.ID,
			BeforeState:  domain.JSON{"status": string(from)},
			AfterState:   domain.MarshalState(app),
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
		uc.metrics.ApplicationTransitions.WithLabelValues(string(input.NewStatus)).Inc()
		uc.metrics.TransitionDuration.Observe(time.Since(start).Seconds())
		if entry != nil {
			uc.metrics.CommissionsCredited.Inc()
		}
	}

	return app, nil
}

// CancelApplication cancels an application on behalf of its owner.
func (uc *ApplicationUseCase) CancelApplication(ctx context.Context, applicationID string) (*domain.Application, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	app, err := uc.appRepo.GetByIDForUpdate(txCtx, tx, applicationID)
	if err != nil {
		return nil, err
	}

	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != app.AccountID {
		return nil, domain.ErrForbidden
	}

	if !app.Cancellable() {
		return nil, domain.ErrNotCancellable
	}

	from := app.Status
	now := time.Now().UTC()
	app.Status = domain.ApplicationStatusCancelled
	app.Timeline = app.Timeline.Append(string(domain.ApplicationStatusCancelled), domain.ActorID(ctx), "", now)

	ok, err := uc.appRepo.UpdateStatus(txCtx, tx, app, from, now)
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

	return app, nil
}

// GetApplication retrieves an application by ID.
func (uc *ApplicationUseCase) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	app, err := uc.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != app.AccountID {
		return nil, domain.ErrForbidden
	}
	return app, nil
}

// ListApplicationsInput represents input for listing applications.
type ListApplicationsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListApplications lists applications for an account.
func (uc *ApplicationUseCase) ListApplications(ctx context.Context, input ListApplicationsInput) ([]*domain.Application, error) {
	limit, offset, _ := domain.ValidatePagination(input.Limit, input.Offset)
	// Members only ever see their own applications.
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember {
		input.AccountID = user.AccountID
	}
	return uc.appRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
