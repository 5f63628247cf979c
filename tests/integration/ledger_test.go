package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/adapter/repository/postgres"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
	"github.com/sambhav/earnings/tests/testutil"
)

func newLedgerUseCase(testDB *testutil.TestDB) (*usecase.LedgerUseCase, *postgres.AccountRepository) {
	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	recorder := usecase.NewRecorder(accountRepo, entryRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, entryRepo, accountRepo, ledgerRepo, recorder, nil, idGen)
	return ledgerUC, accountRepo
}

func TestAdjustmentsKeepLedgerConsistent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC, accountRepo := newLedgerUseCase(testDB)

	account := testDB.CreateTestAccount(ctx, "campaign-winner")

	bonus, err := ledgerUC.RecordAdjustment(ctx, usecase.RecordAdjustmentInput{
		AccountID:   account.ID,
		Type:        domain.EntryTypeBonusCampaign,
		Amount:      decimal.NewFromInt(500),
		Description: "diwali campaign bonus",
	})
	if err != nil {
		t.Fatalf("failed to record bonus: %v", err)
	}
	if !bonus.BalanceBefore.Equal(decimal.Zero) || !bonus.BalanceAfter.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected bonus snapshots: before=%s after=%s", bonus.BalanceBefore, bonus.BalanceAfter)
	}

	refund, err := ledgerUC.RecordAdjustment(ctx, usecase.RecordAdjustmentInput{
		AccountID:   account.ID,
		Type:        domain.EntryTypeRefund,
		Amount:      decimal.NewFromInt(-120),
		Description: "reversed duplicate bonus",
	})
	if err != nil {
		t.Fatalf("failed to record refund: %v", err)
	}
	if !refund.BalanceAfter.Equal(decimal.NewFromInt(380)) {
		t.Errorf("expected balance after refund 380, got %s", refund.BalanceAfter)
	}

	updated, err := accountRepo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	if !updated.WalletBalance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("expected wallet balance 380, got %s", updated.WalletBalance)
	}

	imbalances, err := ledgerUC.CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("consistency check failed: %v", err)
	}
	if len(imbalances) != 0 {
		t.Errorf("expected no imbalances, got %d", len(imbalances))
	}
}

func TestAdjustmentRejectsWorkflowEntryTypes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC, _ := newLedgerUseCase(testDB)
	account := testDB.CreateTestAccount(ctx, "referrer")

	_, err := ledgerUC.RecordAdjustment(ctx, usecase.RecordAdjustmentInput{
		AccountID:   account.ID,
		Type:        domain.EntryTypeLeadCommission,
		Amount:      decimal.NewFromInt(100),
		Description: "not allowed by hand",
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}
