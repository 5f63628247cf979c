package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// AccountResponse represents an earnings account in API responses.
type AccountResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email,omitempty"`
	WalletBalance    decimal.Decimal `json:"walletBalance"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Phone:            a.Phone,
		Email:            a.Email,
		WalletBalance:    a.WalletBalance,
		TotalEarnings:    a.TotalEarnings,
		TotalWithdrawals: a.TotalWithdrawals,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// AccountsFromDomain converts a slice of domain accounts.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	out := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountFromDomain(a)
	}
	return out
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string               `json:"id"`
	AccountID     string               `json:"accountId"`
	Type          string               `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Status        string               `json:"status"`
	BalanceBefore decimal.Decimal      `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal      `json:"balanceAfter"`
	Related       domain.RelatedEntity `json:"related,omitempty"`
	Description   string               `json:"description,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// EntryFromDomain converts a domain ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Type:          string(e.Type),
		Amount:        e.Amount,
		Status:        string(e.Status),
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		Related:       e.Related,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts a slice of domain ledger entries.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	out := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryFromDomain(e)
	}
	return out
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	ProductID        string          `json:"productId"`
	CustomerName     string          `json:"customerName"`
	CustomerPhone    string          `json:"customerPhone"`
	Status           string          `json:"status"`
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
	CommissionStatus string          `json:"commissionStatus"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	Timeline         domain.Timeline `json:"timeline"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// LeadFromDomain converts a domain lead to a response.
func LeadFromDomain(l *domain.Lead) *LeadResponse {
	return &LeadResponse{
		ID:               l.ID,
		AccountID:        l.AccountID,
		ProductID:        l.ProductID,
		CustomerName:     l.CustomerName,
		CustomerPhone:    l.CustomerPhone,
		Status:           string(l.Status),
		CommissionAmount: l.CommissionAmount,
		CommissionStatus: string(l.CommissionStatus),
		RejectionReason:  l.RejectionReason,
		Timeline:         l.Timeline,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// LeadsFromDomain converts a slice of domain leads.
func LeadsFromDomain(leads []*domain.Lead) []*LeadResponse {
	out := make([]*LeadResponse, len(leads))
	for i, l := range leads {
		out[i] = LeadFromDomain(l)
	}
	return out
}

// WithdrawalResponse represents a withdrawal in API responses.
type WithdrawalResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	Method          string          `json:"method,omitempty"`
	PayoutRef       string          `json:"payoutRef,omitempty"`
	TransactionID   *string         `json:"transactionId,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	Timeline        domain.Timeline `json:"timeline"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// WithdrawalFromDomain converts a domain withdrawal to a response.
func WithdrawalFromDomain(w *domain.Withdrawal) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:              w.ID,
		AccountID:       w.AccountID,
		Amount:          w.Amount,
		Status:          string(w.Status),
		Method:          w.Method,
		PayoutRef:       w.PayoutRef,
		TransactionID:   w.TransactionID,
		RejectionReason: w.RejectionReason,
		Timeline:        w.Timeline,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

// WithdrawalsFromDomain converts a slice of domain withdrawals.
func WithdrawalsFromDomain(withdrawals []*domain.Withdrawal) []*WithdrawalResponse {
	out := make([]*WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		out[i] = WithdrawalFromDomain(w)
	}
	return out
}

// ApplicationResponse represents an application in API responses.
type ApplicationResponse struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	ProductID        string          `json:"productId"`
	CustomerName     string          `json:"customerName"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	CommissionStatus string          `json:"commissionStatus"`
	RejectionReason  string          `json:"rejectionReason,omitempty"`
	DocumentURLs     []string        `json:"documentUrls,omitempty"`
	Timeline         domain.Timeline `json:"timeline"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ApplicationFromDomain converts a domain application to a response.
func ApplicationFromDomain(a *domain.Application) *ApplicationResponse {
	return &ApplicationResponse{
		ID:               a.ID,
		AccountID:        a.AccountID,
		ProductID:        a.ProductID,
		CustomerName:     a.CustomerName,
		Amount:           a.Amount,
		Status:           string(a.Status),
		CommissionStatus: string(a.CommissionStatus),
		RejectionReason:  a.RejectionReason,
		DocumentURLs:     a.DocumentURLs,
		Timeline:         a.Timeline,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// ApplicationsFromDomain converts a slice of domain applications.
func ApplicationsFromDomain(applications []*domain.Application) []*ApplicationResponse {
	out := make([]*ApplicationResponse, len(applications))
	for i, a := range applications {
		out[i] = ApplicationFromDomain(a)
	}
	return out
}

// BillPaymentResponse represents a bill payment in API responses.
type BillPaymentResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"accountId"`
	ServiceType   string          `json:"serviceType"`
	ProviderCode  string          `json:"providerCode"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ProviderTxID  string          `json:"providerTxId,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
	Timeline      domain.Timeline `json:"timeline"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BillPaymentFromDomain converts a domain bill payment to a response.
func BillPaymentFromDomain(b *domain.BillPayment) *BillPaymentResponse {
	return &BillPaymentResponse{
		ID:            b.ID,
		AccountID:     b.AccountID,
		ServiceType:   b.ServiceType,
		ProviderCode:  b.ProviderCode,
		AccountNumber: b.AccountNumber,
		Amount:        b.Amount,
		Status:        string(b.Status),
		ProviderTxID:  b.ProviderTxID,
		FailureReason: b.FailureReason,
		Timeline:      b.Timeline,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// BillPaymentsFromDomain converts a slice of domain bill payments.
func BillPaymentsFromDomain(payments []*domain.BillPayment) []*BillPaymentResponse {
	out := make([]*BillPaymentResponse, len(payments))
	for i, b := range payments {
		out[i] = BillPaymentFromDomain(b)
	}
	return out
}

// ProductResponse represents a catalog product in API responses.
type ProductResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	CommissionType string           `json:"commissionType"`
	Value          decimal.Decimal  `json:"value"`
	MaxCommission  *decimal.Decimal `json:"maxCommission,omitempty"`
	MinAmount      *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount      *decimal.Decimal `json:"maxAmount,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ProductFromDomain converts a domain product to a response.
func ProductFromDomain(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Kind:           string(p.Kind),
		CommissionType: string(p.Commission.Type),
		Value:          p.Commission.Value,
		MaxCommission:  p.Commission.MaxCommission,
		MinAmount:      p.Commission.MinAmount,
		MaxAmount:      p.Commission.MaxAmount,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
	}
}

// ProductsFromDomain converts a slice of domain products.
func ProductsFromDomain(products []*domain.Product) []*ProductResponse {
	out := make([]*ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductFromDomain(p)
	}
	return out
}

// UserResponse represents a user in API responses. The password hash is
// never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	AccountID string    `json:"accountId,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		AccountID: u.AccountID,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// ImbalanceResponse represents a wallet whose balance disagrees with the
// sum of its completed ledger entries.
type ImbalanceResponse struct {
	AccountID     string          `json:"accountId"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	EntrySum      decimal.Decimal `json:"entrySum"`
	Difference    decimal.Decimal `json:"difference"`
}

// ImbalancesFromDomain converts a slice of domain imbalances.
func ImbalancesFromDomain(imbalances []domain.Imbalance) []*ImbalanceResponse {
	out := make([]*ImbalanceResponse, len(imbalances))
	for i, im := range imbalances {
		out[i] = &ImbalanceResponse{
			AccountID:     im.AccountID,
			WalletBalance: im.WalletBalance,
			EntrySum:      im.EntrySum,
			Difference:    im.Difference(),
		}
	}
	return out
}
