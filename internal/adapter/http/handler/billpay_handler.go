package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sambhav/earnings/internal/adapter/http/dto"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// BillPayService defines the behavior needed by BillPayHandler.
type BillPayService interface {
	PayBill(ctx context.Context, input usecase.PayBillInput) (*domain.BillPayment, error)
	GetBillPayment(ctx context.Context, id string) (*domain.BillPayment, error)
	ListBillPayments(ctx context.Context, input usecase.ListBillPaymentsInput) ([]*domain.BillPayment, error)
}

// BillPayHandler handles bill payment HTTP requests.
type BillPayHandler struct {
	billpayUC BillPayService
}

// NewBillPayHandler creates a new BillPayHandler.
func NewBillPayHandler(billpayUC BillPayService) *BillPayHandler {
	return &BillPayHandler{billpayUC: billpayUC}
}

// Pay executes a bill payment through the external provider. A failed
// provider call is reported as 502 with the payment in its failed state.
func (h *BillPayHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PayBillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payment, err := h.billpayUC.PayBill(r.Context(), req.ToUseCaseInput())
	if err != nil {
		if payment != nil {
			status, code := mapDomainError(err)
			writeJSON(w, status, dto.Response{
				Success: false,
				Data:    dto.BillPaymentFromDomain(payment),
				Message: err.Error(),
				Code:    code,
			})
			return
		}
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.BillPaymentFromDomain(payment))
}

// Get retrieves a bill payment by ID.
func (h *BillPayHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing bill payment ID")
		return
	}

	payment, err := h.billpayUC.GetBillPayment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.BillPaymentFromDomain(payment))
}

// List lists an account's bill payments.
func (h *BillPayHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.billpayUC.ListBillPayments(r.Context(), usecase.ListBillPaymentsInput{
		AccountID: r.URL.Query().Get("accountId"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.BillPaymentsFromDomain(payments))
}
