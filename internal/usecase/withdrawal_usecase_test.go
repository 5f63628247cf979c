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

type withdrawalFixture struct {
	uc             *usecase.WithdrawalUseCase
	withdrawalRepo *mocks.MockWithdrawalRepository
	accountRepo    *mocks.MockAccountRepository
	entryRepo      *mocks.MockEntryRepository
	outboxRepo     *mocks.MockOutboxRepository
}

func newWithdrawalFixture() *withdrawalFixture {
	f := &withdrawalFixture{
		withdrawalRepo: mocks.NewMockWithdrawalRepository(),
		accountRepo:    mocks.NewMockAccountRepository(),
		entryRepo:      mocks.NewMockEntryRepository(),
		outboxRepo:     mocks.NewMockOutboxRepository(),
	}
	idGen := mocks.NewMockIDGenerator()
	recorder := usecase.NewRecorder(f.accountRepo, f.entryRepo, idGen)
	f.uc = usecase.NewWithdrawalUseCase(
		mocks.NewMockTransactionManager(),
		f.withdrawalRepo,
		f.accountRepo,
		recorder,
		f.outboxRepo,
		mocks.NewMockAuditRepository(),
		idGen,
		nil,
	)
	return f
}

func (f *withdrawalFixture) seedAccount(id string, balance int64) *domain.Account {
	account := &domain.Account{
		ID:            id,
		Name:          "Priya Sharma",
		Phone:         "9876543210",
		WalletBalance: decimal.NewFromInt(balance),
	}
	_ = f.accountRepo.Create(context.Background(), account)
	return account
}

func (f *withdrawalFixture) seedWithdrawal(id string, status domain.WithdrawalStatus, amount int64) *domain.Withdrawal {
	withdrawal := &domain.Withdrawal{
		ID:        id,
		AccountID: "acc_1",
		Amount:    decimal.NewFromInt(amount),
		Status:    status,
		Method:    "upi",
		Timeline:  domain.Timeline{}.Append(string(domain.WithdrawalStatusPending), "usr_1", "", time.Now()),
	}
	_ = f.withdrawalRepo.Create(context.Background(), withdrawal)
	return withdrawal
}

func TestRequestWithdrawal_Success(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedAccount("acc_1", 1000)

	withdrawal, err := f.uc.RequestWithdrawal(context.Background(), usecase.RequestWithdrawalInput{
		AccountID: "acc_1",
		Amount:    decimal.NewFromInt(400),
		Method:    "upi",
		PayoutRef: "priya@upi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if withdrawal.Status != domain.WithdrawalStatusPending {
		t.Errorf("expected pending, got %s", withdrawal.Status)
	}
	if withdrawal.Settled() {
		t.Error("a fresh request must not be settled")
	}
}

func TestRequestWithdrawal_MemberOwnAccount(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedAccount("acc_1", 1000)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_1",
		Role:      domain.RoleMember,
		AccountID: "acc_1",
	})

	withdrawal, err := f.uc.RequestWithdrawal(ctx, usecase.RequestWithdrawalInput{
		AccountID: "acc_1",
		Amount:    decimal.NewFromInt(400),
		Method:    "upi",
		PayoutRef: "priya@upi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withdrawal.Status != domain.WithdrawalStatusPending {
		t.Errorf("expected pending, got %s", withdrawal.Status)
	}
}

func TestRequestWithdrawal_OtherMembersAccount(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedAccount("acc_1", 1000)

	// A member must not be able to route another member's wallet to
	// their own payout destination.
	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_2",
		Role:      domain.RoleMember,
		AccountID: "acc_other",
	})

	_, err := f.uc.RequestWithdrawal(ctx, usecase.RequestWithdrawalInput{
		AccountID: "acc_1",
		Amount:    decimal.NewFromInt(400),
		Method:    "upi",
		PayoutRef: "other@upi",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if withdrawals, _ := f.withdrawalRepo.ListByAccount(context.Background(), "acc_1", 50, 0); len(withdrawals) != 0 {
		t.Fatalf("expected no withdrawal to be created, got %d", len(withdrawals))
	}
}

func TestRequestWithdrawal_InsufficientBalance(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedAccount("acc_1", 100)

	_, err := f.uc.RequestWithdrawal(context.Background(), usecase.RequestWithdrawalInput{
		AccountID: "acc_1",
		Amount:    decimal.NewFromInt(400),
		Method:    "upi",
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestRequestWithdrawal_InvalidAmount(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedAccount("acc_1", 1000)

	_, err := f.uc.RequestWithdrawal(context.Background(), usecase.RequestWithdrawalInput{
		AccountID: "acc_1",
		Amount:    decimal.Zero,
		Method:    "upi",
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransitionWithdrawal_CompletionDebitsWallet(t *testing.T) {
	f := newWithdrawalFixture()
	account := f.seedAccount("acc_1", 1000)
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 400)

	withdrawal, err := f.uc.TransitionWithdrawal(context.Background(), usecase.TransitionWithdrawalInput{
		WithdrawalID: "wd_1",
		NewStatus:    domain.WithdrawalStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if withdrawal.Status != domain.WithdrawalStatusCompleted {
		t.Errorf("expected completed, got %s", withdrawal.Status)
	}
	if !withdrawal.Settled() {
		t.Error("completion must settle the withdrawal")
	}
	if !account.WalletBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected wallet 600, got %s", account.WalletBalance)
	}
	if !account.TotalWithdrawals.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected total withdrawals 400, got %s", account.TotalWithdrawals)
	}

	entries, _ := f.entryRepo.GetByRelated(context.Background(), domain.RelatedWithdrawal, "wd_1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(-400)) {
		t.Errorf("expected entry amount -400, got %s", entries[0].Amount)
	}
	if *withdrawal.TransactionID != entries[0].ID {
		t.Error("withdrawal must reference its settlement entry")
	}

	var settled bool
	for _, e := range f.outboxRepo.Events() {
		if e.EventType == domain.EventTypeWithdrawalSettled && e.AggregateID == "wd_1" {
			settled = true
		}
	}
	if !settled {
		t.Error("expected a withdrawal settled outbox event")
	}
}

func TestTransitionWithdrawal_SettlementRechecksBalance(t *testing.T) {
	f := newWithdrawalFixture()

	// The wallet shrank after the request was accepted.
	account := f.seedAccount("acc_1", 1000)
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 800)
	account.WalletBalance = decimal.NewFromInt(200)

	_, err := f.uc.TransitionWithdrawal(context.Background(), usecase.TransitionWithdrawalInput{
		WithdrawalID: "wd_1",
		NewStatus:    domain.WithdrawalStatusCompleted,
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if !account.WalletBalance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("failed settlement must not move the wallet, got %s", account.WalletBalance)
	}
}

func TestTransitionWithdrawal_CompletedReplayDoesNotDebitTwice(t *testing.T) {
	f := newWithdrawalFixture()
	account := f.seedAccount("acc_1", 600)
	withdrawal := f.seedWithdrawal("wd_1", domain.WithdrawalStatusCompleted, 400)
	entryID := "entry_1"
	withdrawal.TransactionID = &entryID

	got, err := f.uc.TransitionWithdrawal(context.Background(), usecase.TransitionWithdrawalInput{
		WithdrawalID: "wd_1",
		NewStatus:    domain.WithdrawalStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.WithdrawalStatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if !account.WalletBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("replay must not debit again, got %s", account.WalletBalance)
	}
}

func TestTransitionWithdrawal_RejectionRequiresReason(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 400)

	_, err := f.uc.TransitionWithdrawal(context.Background(), usecase.TransitionWithdrawalInput{
		WithdrawalID: "wd_1",
		NewStatus:    domain.WithdrawalStatusRejected,
	})
	if !errors.Is(err, domain.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestTransitionWithdrawal_ProcessingNotCancellable(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusProcessing, 400)

	_, err := f.uc.TransitionWithdrawal(context.Background(), usecase.TransitionWithdrawalInput{
		WithdrawalID: "wd_1",
		NewStatus:    domain.WithdrawalStatusCancelled,
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestGetWithdrawal_OtherMembersWithdrawal(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 400)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_2",
		Role:      domain.RoleMember,
		AccountID: "acc_other",
	})

	if _, err := f.uc.GetWithdrawal(ctx, "wd_1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListWithdrawals_MemberScopedToOwnAccount(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 400)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_2",
		Role:      domain.RoleMember,
		AccountID: "acc_other",
	})

	// The requested account ID is ignored for members.
	withdrawals, err := f.uc.ListWithdrawals(ctx, usecase.ListWithdrawalsInput{AccountID: "acc_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(withdrawals) != 0 {
		t.Fatalf("expected no withdrawals from another member's account, got %d", len(withdrawals))
	}
}

func TestCancelWithdrawal_Owner(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 400)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_1",
		Role:      domain.RoleMember,
		AccountID: "acc_1",
	})

	withdrawal, err := f.uc.CancelWithdrawal(ctx, "wd_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withdrawal.Status != domain.WithdrawalStatusCancelled {
		t.Errorf("expected cancelled, got %s", withdrawal.Status)
	}
}

func TestCancelWithdrawal_OtherMembersWithdrawal(t *testing.T) {
	f := newWithdrawalFixture()
	f.seedWithdrawal("wd_1", domain.WithdrawalStatusPending, 400)

	ctx := domain.ContextWithUser(context.Background(), &domain.User{
		ID:        "usr_2",
		Role:      domain.RoleMember,
		AccountID: "acc_other",
	})

	_, err := f.uc.CancelWithdrawal(ctx, "wd_1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
