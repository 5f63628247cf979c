package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
	"github.com/sambhav/earnings/internal/usecase/mocks"
)

type leadFixture struct {
	uc          *usecase.LeadUseCase
	leadRepo    *mocks.MockLeadRepository
	accountRepo *mocks.MockAccountRepository
	entryRepo   *mocks.MockEntryRepository
	productRepo *mocks.MockProductRepository
	outboxRepo  *mocks.MockOutboxRepository
}

func newLeadFixture() *leadFixture {
	f := &leadFixture{
		leadRepo:    mocks.NewMockLeadRepository(),
		accountRepo: mocks.NewMockAccountRepository(),
		entryRepo:   mocks.NewMockEntryRepository(),
		productRepo: mocks.NewMockProductRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
	}
	idGen := mocks.NewMockIDGenerator()
	recorder := usecase.NewRecorder(f.accountRepo, f.entryRepo, idGen)
	f.uc = usecase.NewLeadUseCase(
		mocks.NewMockTransactionManager(),
		f.leadRepo,
		f.accountRepo,
		f.productRepo,
		recorder,
		f.outboxRepo,
		mocks.NewMockAuditRepository(),
		idGen,
		nil,
	)
	return f
}

func (f *leadFixture) seedAccount(id string, balance int64) *domain.Account {
	account := &domain.Account{
		ID:            id,
		Name:          "Priya Sharma",
		Phone:         "9876543210",
		WalletBalance: decimal.NewFromInt(balance),
	}
	_ = f.accountRepo.Create(context.Background(), account)
	return account
}

func (f *leadFixture) seedProduct(id string, scheme domain.CommissionScheme, active bool) *domain.Product {
	product := &domain.Product{
		ID:         id,
		Name:       "Gold SIP",
		Kind:       domain.ProductSIP,
		Commission: scheme,
		Active:     active,
	}
	_ = f.productRepo.Create(context.Background(), product)
	return product
}

func (f *leadFixture) seedLead(id string, status domain.LeadStatus, commission int64) *domain.Lead {
	lead := &domain.Lead{
		ID:               id,
		AccountID:        "acc_1",
		ProductID:        "prd_1",
		CustomerName:     "Rahul Verma",
		CustomerPhone:    "9123456780",
		Status:           status,
		CommissionAmount: decimal.NewFromInt(commission),
		CommissionStatus: domain.CommissionPending,
		Timeline:         domain.Timeline{}.Append(string(domain.LeadStatusNew), "usr_1", "", time.Now()),
	}
	_ = f.leadRepo.Create(context.Background(), lead)
	return lead
}

func TestSubmitLead_ComputesCommissionAtSubmission(t *testing.T) {
	f := newLeadFixture()
	f.seedAccount("acc_1", 0)
	cap := decimal.NewFromInt(500)
	f.seedProduct("prd_1", domain.CommissionScheme{
		Type:          domain.CommissionPercentage,
		Value:         decimal.NewFromInt(2),
		MaxCommission: &cap,
	}, true)

	lead, err := f.uc.SubmitLead(context.Background(), usecase.SubmitLeadInput{
		AccountID:     "acc_1",
		ProductID:     "prd_1",
		CustomerName:  "Rahul Verma",
		CustomerPhone: "9123456780",
		DealAmount:    decimal.NewFromInt(10000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.Status != domain.LeadStatusNew {
		t.Errorf("expected new, got %s", lead.Status)
	}
	if !lead.CommissionAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected commission 200, got %s", lead.CommissionAmount)
	}
	if lead.CommissionStatus != domain.CommissionPending {
		t.Errorf("expected pending commission, got %s", lead.CommissionStatus)
	}
	if last := lead.Timeline.Last(); last == nil || last.Status != string(domain.LeadStatusNew) {
		t.Error("expected initial timeline entry")
	}
}

func TestSubmitLead_OtherMembersAccount(t *testing.T) {
	f := newLeadFixture()
	f.seedAccount("acc_1", 0)
	f.seedProduct("prd_1", domain.CommissionScheme{
		Type:  domain.CommissionFlat,
		Value: decimal.NewFromInt(100),
	}, true)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_2",
		Role:      domain.RoleMember,
		AccountID: "acc_other",
	})

	_, err := f.uc.SubmitLead(ctx, usecase.SubmitLeadInput{
		AccountID:     "acc_1",
		ProductID:     "prd_1",
		CustomerName:  "Rahul Verma",
		CustomerPhone: "9123456780",
		DealAmount:    decimal.NewFromInt(10000),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if leads, _ := f.leadRepo.ListByAccount(context.Background(), "acc_1", 50, 0); len(leads) != 0 {
		t.Fatalf("expected no lead to be created, got %d", len(leads))
	}
}

func TestSubmitLead_MemberOwnAccount(t *testing.T) {
	f := newLeadFixture()
	f.seedAccount("acc_1", 0)
	f.seedProduct("prd_1", domain.CommissionScheme{
		Type:  domain.CommissionFlat,
		Value: decimal.NewFromInt(100),
	}, true)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_1",
		Role:      domain.RoleMember,
		AccountID: "acc_1",
	})

	lead, err := f.uc.SubmitLead(ctx, usecase.SubmitLeadInput{
		AccountID:     "acc_1",
		ProductID:     "prd_1",
		CustomerName:  "Rahul Verma",
		CustomerPhone: "9123456780",
		DealAmount:    decimal.NewFromInt(10000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.AccountID != "acc_1" {
		t.Errorf("expected lead under acc_1, got %s", lead.AccountID)
	}
}

func TestSubmitLead_InactiveProduct(t *testing.T) {
	f := newLeadFixture()
	f.seedAccount("acc_1", 0)
	f.seedProduct("prd_1", domain.CommissionScheme{
		Type:  domain.CommissionFlat,
		Value: decimal.NewFromInt(100),
	}, false)

	_, err := f.uc.SubmitLead(context.Background(), usecase.SubmitLeadInput{
		AccountID:     "acc_1",
		ProductID:     "prd_1",
		CustomerName:  "Rahul Verma",
		CustomerPhone: "9123456780",
		DealAmount:    decimal.NewFromInt(10000),
	})
	if !errors.Is(err, domain.ErrProductInactive) {
		t.Fatalf("expected ErrProductInactive, got %v", err)
	}
}

func TestSubmitLead_InvalidCustomerPhone(t *testing.T) {
	f := newLeadFixture()

	_, err := f.uc.SubmitLead(context.Background(), usecase.SubmitLeadInput{
		AccountID:     "acc_1",
		ProductID:     "prd_1",
		CustomerName:  "Rahul Verma",
		CustomerPhone: "12345",
		DealAmount:    decimal.NewFromInt(10000),
	})
	if !errors.Is(err, domain.ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestTransitionLead_ApprovalCreditsCommission(t *testing.T) {
	f := newLeadFixture()
	account := f.seedAccount("acc_1", 0)
	f.seedLead("lead_1", domain.LeadStatusInReview, 300)

	lead, err := f.uc.TransitionLead(context.Background(), usecase.TransitionLeadInput{
		LeadID:    "lead_1",
		NewStatus: domain.LeadStatusApproved,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.Status != domain.LeadStatusApproved {
		t.Errorf("expected approved, got %s", lead.Status)
	}
	if lead.CommissionStatus != domain.CommissionCredited {
		t.Errorf("expected credited commission, got %s", lead.CommissionStatus)
	}
	if !account.WalletBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected wallet 300, got %s", account.WalletBalance)
	}

	entries, _ := f.entryRepo.GetByRelated(context.Background(), domain.RelatedLead, "lead_1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Type != domain.EntryTypeLeadCommission {
		t.Errorf("expected lead_commission entry, got %s", entries[0].Type)
	}

	var credited bool
	for _, e := range f.outboxRepo.Events() {
		if e.EventType == domain.EventTypeCommissionCredited && e.AggregateID == "lead_1" {
			credited = true
		}
	}
	if !credited {
		t.Error("expected a commission credited outbox event")
	}
}

func TestTransitionLead_RejectionRequiresReason(t *testing.T) {
	f := newLeadFixture()
	f.seedLead("lead_1", domain.LeadStatusInReview, 300)

	_, err := f.uc.TransitionLead(context.Background(), usecase.TransitionLeadInput{
		LeadID:    "lead_1",
		NewStatus: domain.LeadStatusRejected,
	})
	if !errors.Is(err, domain.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestTransitionLead_InvalidTransition(t *testing.T) {
	f := newLeadFixture()
	f.seedLead("lead_1", domain.LeadStatusRejected, 300)

	_, err := f.uc.TransitionLead(context.Background(), usecase.TransitionLeadInput{
		LeadID:    "lead_1",
		NewStatus: domain.LeadStatusApproved,
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionLead_TerminalReplayIsNoOp(t *testing.T) {
	f := newLeadFixture()
	account := f.seedAccount("acc_1", 300)
	lead := f.seedLead("lead_1", domain.LeadStatusApproved, 300)
	lead.CommissionStatus = domain.CommissionCredited

	got, err := f.uc.TransitionLead(context.Background(), usecase.TransitionLeadInput{
		LeadID:    "lead_1",
		NewStatus: domain.LeadStatusApproved,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.LeadStatusApproved {
		t.Errorf("expected approved, got %s", got.Status)
	}
	if !account.WalletBalance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("replay must not credit again, got %s", account.WalletBalance)
	}
}

func TestTransitionLead_RaceLoserReturnsCurrentState(t *testing.T) {
	f := newLeadFixture()
	f.seedAccount("acc_1", 0)
	f.seedLead("lead_1", domain.LeadStatusInReview, 300)

	f.leadRepo.UpdateStatusFunc = func(ctx context.Context, tx usecase.Transaction, lead *domain.Lead, from domain.LeadStatus, updatedAt time.Time) (bool, error) {
		return false, nil
	}

	lead, err := f.uc.TransitionLead(context.Background(), usecase.TransitionLeadInput{
		LeadID:    "lead_1",
		NewStatus: domain.LeadStatusApproved,
	})
	if err != nil {
		t.Fatalf("race loser must not error, got %v", err)
	}
	if lead == nil {
		t.Fatal("expected the current lead state")
	}
}

func TestCancelLead_AfterCredit(t *testing.T) {
	f := newLeadFixture()
	lead := f.seedLead("lead_1", domain.LeadStatusInReview, 300)
	lead.CommissionStatus = domain.CommissionCredited

	_, err := f.uc.CancelLead(context.Background(), "lead_1")
	if !errors.Is(err, domain.ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
}

func TestCancelLead_OtherMembersLead(t *testing.T) {
	f := newLeadFixture()
	f.seedLead("lead_1", domain.LeadStatusNew, 300)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_2",
		Role:      domain.RoleMember,
		AccountID: "acc_other",
	})

	_, err := f.uc.CancelLead(ctx, "lead_1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCancelLead_Owner(t *testing.T) {
	f := newLeadFixture()
	f.seedLead("lead_1", domain.LeadStatusNew, 300)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_1",
		Role:      domain.RoleMember,
		AccountID: "acc_1",
	})

	lead, err := f.uc.CancelLead(ctx, "lead_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Status != domain.LeadStatusCancelled {
		t.Errorf("expected cancelled, got %s", lead.Status)
	}
}
