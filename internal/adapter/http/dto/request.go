package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Phone:    r.Phone,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccountRequest represents a request to create an earnings account.
type CreateAccountRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:  r.Name,
		Phone: r.Phone,
		Email: r.Email,
	}
}

// SubmitLeadRequest represents a request to submit a lead.
type SubmitLeadRequest struct {
	AccountID     string          `json:"accountId"`
	ProductID     string          `json:"productId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	DealAmount    decimal.Decimal `json:"dealAmount"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitLeadRequest) ToUseCaseInput() usecase.SubmitLeadInput {
	return usecase.SubmitLeadInput{
		AccountID:     r.AccountID,
		ProductID:     r.ProductID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		DealAmount:    r.DealAmount,
	}
}

// TransitionRequest represents a status transition for any workflow entity.
type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// RequestWithdrawalRequest represents a payout request.
type RequestWithdrawalRequest struct {
	AccountID string          `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	PayoutRef string          `json:"payoutRef,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RequestWithdrawalRequest) ToUseCaseInput() usecase.RequestWithdrawalInput {
	return usecase.RequestWithdrawalInput{
		AccountID: r.AccountID,
		Amount:    r.Amount,
		Method:    r.Method,
		PayoutRef: r.PayoutRef,
	}
}

// SubmitApplicationRequest represents a product application submission.
type SubmitApplicationRequest struct {
	AccountID    string          `json:"accountId"`
	ProductID    string          `json:"productId"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	DocumentURLs []string        `json:"documentUrls,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitApplicationRequest) ToUseCaseInput() usecase.SubmitApplicationInput {
	return usecase.SubmitApplicationInput{
		AccountID:    r.AccountID,
		ProductID:    r.ProductID,
		CustomerName: r.CustomerName,
		Amount:       r.Amount,
		DocumentURLs: r.DocumentURLs,
	}
}

// PayBillRequest represents a bill payment request.
type PayBillRequest struct {
	AccountID     string          `json:"accountId"`
	ServiceType   string          `json:"serviceType"`
	ProviderCode  string          `json:"providerCode"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *PayBillRequest) ToUseCaseInput() usecase.PayBillInput {
	return usecase.PayBillInput{
		AccountID:     r.AccountID,
		ServiceType:   r.ServiceType,
		ProviderCode:  r.ProviderCode,
		AccountNumber: r.AccountNumber,
		Amount:        r.Amount,
	}
}

// CreateProductRequest represents a catalog product creation.
type CreateProductRequest struct {
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	CommissionType string           `json:"commissionType"`
	Value          decimal.Decimal  `json:"value"`
	MaxCommission  *decimal.Decimal `json:"maxCommission,omitempty"`
	MinAmount      *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount      *decimal.Decimal `json:"maxAmount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateProductRequest) ToUseCaseInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Name: r.Name,
		Kind: domain.ProductKind(r.Kind),
		Commission: domain.CommissionScheme{
			Type:          domain.CommissionType(r.CommissionType),
			Value:         r.Value,
			MaxCommission: r.MaxCommission,
			MinAmount:     r.MinAmount,
			MaxAmount:     r.MaxAmount,
		},
	}
}

// RecordAdjustmentRequest represents a manual ledger adjustment.
type RecordAdjustmentRequest struct {
	AccountID   string          `json:"accountId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordAdjustmentRequest) ToUseCaseInput() usecase.RecordAdjustmentInput {
	return usecase.RecordAdjustmentInput{
		AccountID:   r.AccountID,
		Type:        domain.EntryType(r.Type),
		Amount:      r.Amount,
		Description: r.Description,
	}
}
