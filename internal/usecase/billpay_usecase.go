package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/infrastructure/metrics"
)

// BillPayUseCase handles synchronous bill payments against an external
// provider. Payments do not touch the earnings ledger; they only track the
// provider call's outcome.
type BillPayUseCase struct {
	billRepo    BillPaymentRepository
	accountRepo AccountRepository
	provider    PaymentProvider
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	txManager   TransactionManager
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewBillPayUseCase creates a new BillPayUseCase.
func NewBillPayUseCase(
	billRepo BillPaymentRepository,
	accountRepo AccountRepository,
	provider PaymentProvider,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BillPayUseCase {
	return &BillPayUseCase{
		billRepo:    billRepo,
		accountRepo: accountRepo,
		provider:    provider,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// PayBillInput represents input for paying a bill.
type PayBillInput struct {
	AccountID     string
	ServiceType   string
	ProviderCode  string
	AccountNumber string
	Amount        decimal.Decimal
}

// PayBill creates a processing payment record, calls the provider with a
// bounded timeout, and moves the payment to success or failed. A provider
// error or timeout is a failed payment, never one stuck processing.
func (uc *BillPayUseCase) PayBill(ctx context.Context, input PayBillInput) (*domain.BillPayment, error) {
	if input.ServiceType == "" || input.ProviderCode == "" || input.AccountNumber == "" {
		return nil, domain.ErrInvalidOperation
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payment := &domain.BillPayment{
		ID:            uc.idGen.Generate(),
		AccountID:     input.AccountID,
		ServiceType:   input.ServiceType,
		ProviderCode:  input.ProviderCode,
		AccountNumber: input.AccountNumber,
		Amount:        input.Amount,
		Status:        domain.BillPaymentProcessing,
		Timeline:      domain.Timeline{}.Append(string(domain.BillPaymentProcessing), domain.ActorID(ctx), "", now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	if err := uc.billRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       domain.ActorID(ctx),
			Action:       string(domain.AuditActionBillPaymentCreate),
			ResourceType: domain.AggregateTypeBillPayment,
			ResourceID:   payment.ID,
			AfterState:   domain.MarshalState(payment),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	providerCtx, cancel := context.WithTimeout(ctx, ProviderCallTimeout)
	defer cancel()

	result, err := uc.provider.ProcessPayment(providerCtx, ProviderPaymentInput{
		ServiceType:   input.ServiceType,
		ProviderCode:  input.ProviderCode,
		AccountNumber: input.AccountNumber,
		Amount:        input.Amount,
	})

	finishedAt := time.Now().UTC()
	switch {
	case err != nil:
		payment.Status = domain.BillPaymentFailed
		payment.FailureReason = err.Error()
	case !result.Success:
		payment.Status = domain.BillPaymentFailed
		payment.ProviderTxID = result.ProviderTxID
		payment.FailureReason = result.Message
	default:
		payment.Status = domain.BillPaymentSuccess
		payment.ProviderTxID = result.ProviderTxID
	}
	payment.Timeline = payment.Timeline.Append(string(payment.Status), "provider", payment.FailureReason, finishedAt)
	payment.UpdatedAt = finishedAt

	ok, updateErr := uc.billRepo.UpdateStatus(ctx, payment, domain.BillPaymentProcessing, finishedAt)
	if updateErr != nil {
		return nil, updateErr
	}
	if !ok {
		return uc.billRepo.GetByID(ctx, payment.ID)
	}

	uc.publishFinished(ctx, payment)

	if uc.metrics != nil {
		uc.metrics.BillPayments.WithLabelValues(input.ServiceType, string(payment.Status)).Inc()
	}

	if payment.Status == domain.BillPaymentFailed {
		return payment, domain.ErrProviderFailed
	}
	return payment, nil
}

// GetBillPayment retrieves a bill payment by ID.
func (uc *BillPayUseCase) GetBillPayment(ctx context.Context, id string) (*domain.BillPayment, error) {
	return uc.billRepo.GetByID(ctx, id)
}

// ListBillPaymentsInput represents input for listing bill payments.
type ListBillPaymentsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListBillPayments lists an account's bill payments.
func (uc *BillPayUseCase) ListBillPayments(ctx context.Context, input ListBillPaymentsInput) ([]*domain.BillPayment, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.billRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// publishFinished writes the terminal-status event to the outbox. The
// payment already reached its final state; a failed write here only delays
// the notification.
func (uc *BillPayUseCase) publishFinished(ctx context.Context, payment *domain.BillPayment) {
	if uc.outboxRepo == nil || uc.txManager == nil {
		return
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payment.ID,
		AggregateType: domain.AggregateTypeBillPayment,
		EventType:     domain.EventTypeBillPaymentFinished,
		Payload: map[string]any{
			"bill_payment_id": payment.ID,
			"account_id":      payment.AccountID,
			"status":          string(payment.Status),
			"amount":          payment.Amount.String(),
			"provider_tx_id":  payment.ProviderTxID,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return
	}
	_ = tx.Commit(ctx)
}
