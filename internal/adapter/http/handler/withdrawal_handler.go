package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sambhav/earnings/internal/adapter/http/dto"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// WithdrawalService defines the behavior needed by WithdrawalHandler.
type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, input usecase.RequestWithdrawalInput) (*domain.Withdrawal, error)
	TransitionWithdrawal(ctx context.Context, input usecase.TransitionWithdrawalInput) (*domain.Withdrawal, error)
	CancelWithdrawal(ctx context.Context, withdrawalID string) (*domain.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id string) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, input usecase.ListWithdrawalsInput) ([]*domain.Withdrawal, error)
}

// WithdrawalHandler handles withdrawal workflow HTTP requests.
type WithdrawalHandler struct {
	withdrawalUC WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalUC WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalUC: withdrawalUC}
}

// Request creates a new pending withdrawal.
func (h *WithdrawalHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestWithdrawalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	withdrawal, err := h.withdrawalUC.RequestWithdrawal(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.WithdrawalFromDomain(withdrawal))
}

// Transition moves a withdrawal to a new status. Completion settles the
// payout against the wallet.
func (h *WithdrawalHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.TransitionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	withdrawal, err := h.withdrawalUC.TransitionWithdrawal(r.Context(), usecase.TransitionWithdrawalInput{
		WithdrawalID: id,
		NewStatus:    domain.WithdrawalStatus(req.Status),
		Reason:       req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Cancel cancels a withdrawal that has not settled.
func (h *WithdrawalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	withdrawal, err := h.withdrawalUC.CancelWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// Get retrieves a withdrawal by ID.
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing withdrawal ID")
		return
	}

	withdrawal, err := h.withdrawalUC.GetWithdrawal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.WithdrawalFromDomain(withdrawal))
}

// List lists an account's withdrawals.
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalUC.ListWithdrawals(r.Context(), usecase.ListWithdrawalsInput{
		AccountID: r.URL.Query().Get("accountId"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.WithdrawalsFromDomain(withdrawals))
}
