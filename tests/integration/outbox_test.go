package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/adapter/repository/postgres"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/infrastructure/eventpublisher"
	"github.com/sambhav/earnings/internal/usecase"
	"github.com/sambhav/earnings/tests/testutil"
)

func TestLeadApprovalWritesOutboxEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	leadUC, _, _ := newLeadUseCase(testDB)
	outboxRepo := postgres.NewOutboxRepository(testDB.Pool)

	account := testDB.CreateTestAccount(ctx, "referrer")
	product := testDB.CreateTestProduct(ctx, "SIP Starter", domain.ProductSIP, domain.CommissionScheme{
		Type:  domain.CommissionFlat,
		Value: decimal.NewFromInt(150),
	})

	lead, err := leadUC.SubmitLead(ctx, usecase.SubmitLeadInput{
		AccountID:     account.ID,
		ProductID:     product.ID,
		CustomerName:  "Meena Shah",
		CustomerPhone: "9988776655",
		DealAmount:    decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("failed to submit lead: %v", err)
	}

	if _, err := leadUC.TransitionLead(ctx, usecase.TransitionLeadInput{
		LeadID:    lead.ID,
		NewStatus: domain.LeadStatusApproved,
	}); err != nil {
		t.Fatalf("failed to approve lead: %v", err)
	}

	events, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get unpublished events: %v", err)
	}

	var credited *domain.OutboxEvent
	for _, event := range events {
		if event.EventType == domain.EventTypeCommissionCredited && event.AggregateID == lead.ID {
			credited = event
			break
		}
	}
	if credited == nil {
		t.Fatal("commission credited event not found in outbox")
	}
	if credited.Published {
		t.Error("event should not be published yet")
	}
	if credited.Payload["account_id"] != account.ID {
		t.Errorf("payload account_id mismatch: got %v", credited.Payload["account_id"])
	}
}

func TestEventPublisherDrainsOutbox(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	withdrawalUC, _, _ := newWithdrawalUseCase(testDB)
	outboxRepo := postgres.NewOutboxRepository(testDB.Pool)

	account := testDB.CreateTestAccountWithBalance(ctx, "saver", decimal.NewFromInt(1000))

	withdrawal, err := withdrawalUC.RequestWithdrawal(ctx, usecase.RequestWithdrawalInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("failed to request withdrawal: %v", err)
	}
	if _, err := withdrawalUC.TransitionWithdrawal(ctx, usecase.TransitionWithdrawalInput{
		WithdrawalID: withdrawal.ID,
		NewStatus:    domain.WithdrawalStatusCompleted,
	}); err != nil {
		t.Fatalf("failed to complete withdrawal: %v", err)
	}

	capture := &capturePublisher{}
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  capture,
		BatchSize:  10,
		Interval:   50 * time.Millisecond,
	})

	publisherCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	go publisher.Start(publisherCtx)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(capture.Published()) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	published := capture.Published()
	if len(published) == 0 {
		t.Fatal("no events were published")
	}

	unpublished, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to get unpublished events: %v", err)
	}
	if len(unpublished) > 0 {
		t.Errorf("expected 0 unpublished events after publishing, got %d", len(unpublished))
	}
}

type capturePublisher struct {
	mu        sync.Mutex
	published []*domain.OutboxEvent
}

func (p *capturePublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *capturePublisher) Published() []*domain.OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.OutboxEvent{}, p.published...)
}
