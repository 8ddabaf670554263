package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chatguard/internal/moderation/models"
	id "chatguard/pkg/domain"
	"chatguard/pkg/platform/httputil"
	request "chatguard/pkg/platform/middleware/request"
)

// Service defines the moderation operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.ModerationStatus, error)
	SetBlocked(ctx context.Context, userID id.UserID, until time.Time, reason string) (*models.ModerationStatus, error)
	SetSuspended(ctx context.Context, userID id.UserID, reason string) (*models.ModerationStatus, error)
	Clear(ctx context.Context, userID id.UserID, reason string) (*models.ModerationStatus, error)
	AddRestriction(ctx context.Context, userID id.UserID, tag models.Restriction) (*models.ModerationStatus, error)
	RemoveRestriction(ctx context.Context, userID id.UserID, tag models.Restriction) (*models.ModerationStatus, error)
	RecordViolation(ctx context.Context, v *models.Violation) (*models.ViolationOutcome, error)
}

// Handler serves the staff moderation endpoints. Callers must already be
// authenticated as moderator or admin by the router.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the moderation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/moderation/users/{userID}", h.HandleGet)
	r.Post("/moderation/users/{userID}/block", h.HandleBlock)
	r.Post("/moderation/users/{userID}/suspend", h.HandleSuspend)
	r.Post("/moderation/users/{userID}/clear", h.HandleClear)
	r.Post("/moderation/users/{userID}/restrictions", h.HandleAddRestriction)
	r.Delete("/moderation/users/{userID}/restrictions/{tag}", h.HandleRemoveRestriction)
	r.Post("/moderation/violations", h.HandleRecordViolation)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	status, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "failed to get moderation status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.BlockRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	status, err := h.service.SetBlocked(ctx, userID, req.Until, req.Reason)
	if err != nil {
		h.fail(w, r, "failed to block user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleSuspend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ReasonRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	status, err := h.service.SetSuspended(ctx, userID, req.Reason)
	if err != nil {
		h.fail(w, r, "failed to suspend user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ReasonRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	status, err := h.service.Clear(ctx, userID, req.Reason)
	if err != nil {
		h.fail(w, r, "failed to clear user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleAddRestriction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RestrictionRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	tag, _ := models.ParseRestriction(req.Tag)
	status, err := h.service.AddRestriction(ctx, userID, tag)
	if err != nil {
		h.fail(w, r, "failed to add restriction", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleRemoveRestriction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}
	tag, err := models.ParseRestriction(chi.URLParam(r, "tag"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.service.RemoveRestriction(r.Context(), userID, tag)
	if err != nil {
		h.fail(w, r, "failed to remove restriction", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleRecordViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.RecordViolationRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	outcome, err := h.service.RecordViolation(ctx, req.ToViolation())
	if err != nil {
		h.fail(w, r, "failed to record violation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, outcome)
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return userID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
