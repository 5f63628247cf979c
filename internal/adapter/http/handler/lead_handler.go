package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sambhav/earnings/internal/adapter/http/dto"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// LeadService defines the behavior needed by LeadHandler.
type LeadService interface {
	SubmitLead(ctx context.Context, input usecase.SubmitLeadInput) (*domain.Lead, error)
	TransitionLead(ctx context.Context, input usecase.TransitionLeadInput) (*domain.Lead, error)
	CancelLead(ctx context.Context, leadID string) (*domain.Lead, error)
	GetLead(ctx context.Context, id string) (*domain.Lead, error)
	ListLeads(ctx context.Context, input usecase.ListLeadsInput) ([]*domain.Lead, error)
}

// LeadHandler handles lead workflow HTTP requests.
type LeadHandler struct {
	leadUC LeadService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leadUC LeadService) *LeadHandler {
	return &LeadHandler{leadUC: leadUC}
}

// Submit creates a new lead.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitLeadRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lead, err := h.leadUC.SubmitLead(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.LeadFromDomain(lead))
}

// Transition moves a lead to a new status. Reviewer or admin only,
// enforced by middleware.
func (h *LeadHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.TransitionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lead, err := h.leadUC.TransitionLead(r.Context(), usecase.TransitionLeadInput{
		LeadID:    id,
		NewStatus: domain.LeadStatus(req.Status),
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.LeadFromDomain(lead))
}

// Cancel cancels a lead while it is still cancellable.
func (h *LeadHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := h.leadUC.CancelLead(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.LeadFromDomain(lead))
}

// Get retrieves a lead by ID.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing lead ID")
		return
	}

	lead, err := h.leadUC.GetLead(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.LeadFromDomain(lead))
}

// List lists leads, optionally filtered by account or status.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.leadUC.ListLeads(r.Context(), usecase.ListLeadsInput{
		AccountID: r.URL.Query().Get("accountId"),
		Status:    domain.LeadStatus(r.URL.Query().Get("status")),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.LeadsFromDomain(leads))
}
