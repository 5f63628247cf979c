package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
)

// AccountUseCase handles earnings account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Name  string
	Phone string
	Email string
}

// CreateAccount creates a new earnings account with zero balances.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := domain.ValidateEmail(input.Email); err != nil {
			return nil, err
		}
	}

	if existing, err := uc.accountRepo.GetByPhoneOrEmail(ctx, input.Phone, input.Email); err == nil && existing != nil {
		return nil, domain.ErrDuplicateAccount
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:               uc.idGen.Generate(),
		Name:             input.Name,
		Phone:            input.Phone,
		Email:            input.Email,
		WalletBalance:    decimal.Zero,
		TotalEarnings:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		Version:          0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountCreate, account.ID, account)

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != id {
		return nil, domain.ErrForbidden
	}
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.accountRepo.List(ctx, limit, offset)
}

// AccountSummary is the cached earnings overview for an account.
type AccountSummary struct {
	AccountID        string                `json:"accountId"`
	Name             string                `json:"name"`
	WalletBalance    decimal.Decimal       `json:"walletBalance"`
	TotalEarnings    decimal.Decimal       `json:"totalEarnings"`
	TotalWithdrawals decimal.Decimal       `json:"totalWithdrawals"`
	RecentEntries    []*domain.LedgerEntry `json:"recentEntries"`
	GeneratedAt      time.Time             `json:"generatedAt"`
}

// GetSummary returns the earnings summary for an account. Summaries are
// served from cache when fresh; a miss falls through to the database.
func (uc *AccountUseCase) GetSummary(ctx context.Context, accountID string) (*AccountSummary, error) {
	if user, ok := domain.UserFromContext(ctx); ok && user.Role == domain.RoleMember && user.AccountID != accountID {
		return nil, domain.ErrForbidden
	}

	cacheKey := "summary:" + accountID

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var summary AccountSummary
			if err := json.Unmarshal(data, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.GetByAccount(ctx, accountID, 10, 0)
	if err != nil {
		return nil, err
	}

	summary := &AccountSummary{
		AccountID:        account.ID,
		Name:             account.Name,
		WalletBalance:    account.WalletBalance,
		TotalEarnings:    account.TotalEarnings,
		TotalWithdrawals: account.TotalWithdrawals,
		RecentEntries:    entries,
		GeneratedAt:      time.Now().UTC(),
	}

	if uc.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, data, SummaryCacheTTL)
		}
	}

	return summary, nil
}

func (uc *AccountUseCase) audit(ctx context.Context, action domain.AuditAction, resourceID string, state any) {
	if uc.auditRepo == nil {
		return
	}
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       domain.ActorID(ctx),
		Action:       string(action),
		ResourceType: domain.AggregateTypeAccount,
		ResourceID:   resourceID,
		AfterState:   domain.MarshalState(state),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
