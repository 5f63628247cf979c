package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sambhav/earnings/internal/adapter/http/dto"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error)
	ListEntriesByRelated(ctx context.Context, kind domain.RelatedKind, id string) ([]*domain.LedgerEntry, error)
	RecordAdjustment(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.LedgerEntry, error)
	CheckConsistency(ctx context.Context) ([]domain.Imbalance, error)
}

// LedgerHandler handles ledger entry HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// GetEntry retrieves a ledger entry by ID.
func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing entry ID")
		return
	}

	entry, err := h.ledgerUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// ListEntries lists an account's entries, newest first.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeBadRequest(w, "missing account ID")
		return
	}

	entries, err := h.ledgerUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		AccountID: accountID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByRelated lists entries produced by a workflow entity.
func (h *LedgerHandler) ListByRelated(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	id := chi.URLParam(r, "relatedId")
	if kind == "" || id == "" {
		writeBadRequest(w, "missing related kind or ID")
		return
	}

	entries, err := h.ledgerUC.ListEntriesByRelated(r.Context(), domain.RelatedKind(kind), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// RecordAdjustment records a manual bonus or refund entry. Admin only,
// enforced by middleware.
func (h *LedgerHandler) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordAdjustmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.ledgerUC.RecordAdjustment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// CheckConsistency reports wallets whose balance disagrees with the sum
// of their completed entries. An empty list means the ledger is sound.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	imbalances, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ImbalancesFromDomain(imbalances))
}
