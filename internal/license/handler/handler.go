// Package handler exposes the license administration API over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"licensehub/internal/license/models"
	"licensehub/internal/platform/middleware"
	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/license-mocks.go -package=mocks Service

// Service defines the license operations the handler needs.
type Service interface {
	CreateLicense(ctx context.Context, orgID id.OrganizationID, req *models.CreateLicenseRequest) (*models.LicenseView, error)
	GetLicense(ctx context.Context, licenseID id.LicenseID) (*models.LicenseView, error)
	ListLicenses(ctx context.Context, orgID id.OrganizationID) ([]models.LicenseView, error)
	UpdateLicense(ctx context.Context, licenseID id.LicenseID, req *models.UpdateLicenseRequest) (*models.Decision, error)
	PreviewUpdate(ctx context.Context, licenseID id.LicenseID, req *models.UpdateLicenseRequest) (*models.Decision, error)
	DeactivateLicense(ctx context.Context, licenseID id.LicenseID) (*models.LicenseView, error)
	ReactivateLicense(ctx context.Context, licenseID id.LicenseID) (*models.LicenseView, error)
	ListSeats(ctx context.Context, licenseID id.LicenseID) ([]*models.Seat, error)
	AssignSeat(ctx context.Context, licenseID id.LicenseID, req *models.AssignSeatRequest) (*models.Seat, error)
	ReactivateSeat(ctx context.Context, licenseID id.LicenseID, userID id.UserID) (*models.Seat, error)
	ListAuditEvents(ctx context.Context, licenseID id.LicenseID) ([]audit.Event, error)
}

// Handler serves the /admin license routes.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator *middleware.TokenValidator
}

// New creates a license Handler. A nil validator leaves the routes
// unauthenticated, which only tests should do.
func New(service Service, logger *slog.Logger, validator *middleware.TokenValidator) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator,
	}
}

// Register mounts the admin routes on r. The extra middlewares run after
// authentication, so they see the actor.
func (h *Handler) Register(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		if h.validator != nil {
			r.Use(middleware.RequireAdmin(h.validator, h.logger))
		}
		r.Use(mws...)
		r.Get("/organizations/{orgID}/licenses", h.handleListLicenses)
		r.Post("/organizations/{orgID}/licenses", h.handleCreateLicense)
		r.Get("/licenses/{licenseID}", h.handleGetLicense)
		r.Put("/licenses/{licenseID}", h.handleUpdateLicense)
		r.Post("/licenses/{licenseID}/preview", h.handlePreviewUpdate)
		r.Post("/licenses/{licenseID}/deactivate", h.handleDeactivateLicense)
		r.Post("/licenses/{licenseID}/reactivate", h.handleReactivateLicense)
		r.Get("/licenses/{licenseID}/seats", h.handleListSeats)
		r.Post("/licenses/{licenseID}/seats", h.handleAssignSeat)
		r.Post("/licenses/{licenseID}/seats/{userID}/reactivate", h.handleReactivateSeat)
		r.Get("/licenses/{licenseID}/audit", h.handleListAuditEvents)
	})
}

func (h *Handler) handleListLicenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	views, err := h.service.ListLicenses(ctx, orgID)
	if err != nil {
		h.fail(ctx, w, "failed to list licenses", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &LicenseListResponse{Licenses: views})
}

func (h *Handler) handleCreateLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateLicenseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, err := h.service.CreateLicense(ctx, orgID, req)
	if err != nil {
		h.fail(ctx, w, "failed to create license", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleGetLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetLicense(ctx, licenseID)
	if err != nil {
		h.fail(ctx, w, "failed to get license", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleUpdateLicense(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.service.UpdateLicense, "failed to update license")
}

func (h *Handler) handlePreviewUpdate(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.service.PreviewUpdate, "failed to preview license update")
}

type decideFunc func(ctx context.Context, licenseID id.LicenseID, req *models.UpdateLicenseRequest) (*models.Decision, error)

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request, decide decideFunc, failure string) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateLicenseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	decision, err := decide(ctx, licenseID, req)
	if err != nil {
		h.fail(ctx, w, failure, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUpdateResponse(decision))
}

func (h *Handler) handleDeactivateLicense(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.service.DeactivateLicense, "failed to deactivate license")
}

func (h *Handler) handleReactivateLicense(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, h.service.ReactivateLicense, "failed to reactivate license")
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, transition func(context.Context, id.LicenseID) (*models.LicenseView, error), failure string) {
	ctx := r.Context()
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	view, err := transition(ctx, licenseID)
	if err != nil {
		h.fail(ctx, w, failure, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleListSeats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	seats, err := h.service.ListSeats(ctx, licenseID)
	if err != nil {
		h.fail(ctx, w, "failed to list seats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSeatListResponse(seats))
}

func (h *Handler) handleAssignSeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.AssignSeatRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	seat, err := h.service.AssignSeat(ctx, licenseID, req)
	if err != nil {
		h.fail(ctx, w, "failed to assign seat", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toSeatResponse(seat))
}

func (h *Handler) handleReactivateSeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	seat, err := h.service.ReactivateSeat(ctx, licenseID, id.UserID(chi.URLParam(r, "userID")))
	if err != nil {
		h.fail(ctx, w, "failed to reactivate seat", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSeatResponse(seat))
}

func (h *Handler) handleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	licenseID, ok := h.licenseID(w, r)
	if !ok {
		return
	}
	events, err := h.service.ListAuditEvents(ctx, licenseID)
	if err != nil {
		h.fail(ctx, w, "failed to list license history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &AuditEventListResponse{Events: events})
}

func (h *Handler) orgID(w http.ResponseWriter, r *http.Request) (id.OrganizationID, bool) {
	orgID, err := id.ParseOrganizationID(chi.URLParam(r, "orgID"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid organization id",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return 0, false
	}
	return orgID, true
}

func (h *Handler) licenseID(w http.ResponseWriter, r *http.Request) (id.LicenseID, bool) {
	licenseID, err := id.ParseLicenseID(chi.URLParam(r, "licenseID"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid license id",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return 0, false
	}
	return licenseID, true
}

// fail logs err at a level matching its code and writes the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	default:
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
