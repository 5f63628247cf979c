package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sambhav/earnings/internal/adapter/http/dto"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/usecase"
)

// ApplicationService defines the behavior needed by ApplicationHandler.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, input usecase.SubmitApplicationInput) (*domain.Application, error)
	TransitionApplication(ctx context.Context, input usecase.TransitionApplicationInput) (*domain.Application, error)
	CancelApplication(ctx context.Context, applicationID string) (*domain.Application, error)
	GetApplication(ctx context.Context, id string) (*domain.Application, error)
	ListApplications(ctx context.Context, input usecase.ListApplicationsInput) ([]*domain.Application, error)
}

// ApplicationHandler handles product application HTTP requests.
type ApplicationHandler struct {
	applicationUC ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(applicationUC ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationUC: applicationUC}
}

// Submit creates a new application.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitApplicationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	application, err := h.applicationUC.SubmitApplication(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.ApplicationFromDomain(application))
}

// Transition moves an application to a new status.
func (h *ApplicationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.TransitionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	application, err := h.applicationUC.TransitionApplication(r.Context(), usecase.TransitionApplicationInput{
		ApplicationID: id,
		NewStatus:     domain.ApplicationStatus(req.Status),
		Reason:        req.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ApplicationFromDomain(application))
}

// Cancel cancels an application while it is still cancellable.
func (h *ApplicationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	application, err := h.applicationUC.CancelApplication(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ApplicationFromDomain(application))
}

// Get retrieves an application by ID.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing application ID")
		return
	}

	application, err := h.applicationUC.GetApplication(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ApplicationFromDomain(application))
}

// List lists an account's applications.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	applications, err := h.applicationUC.ListApplications(r.Context(), usecase.ListApplicationsInput{
		AccountID: r.URL.Query().Get("accountId"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.ApplicationsFromDomain(applications))
}
