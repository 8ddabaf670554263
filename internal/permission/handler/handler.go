package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatguard/internal/permission/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/httputil"
	request "chatguard/pkg/platform/middleware/request"
	"chatguard/pkg/requestcontext"
)

type Service interface {
	Validate(ctx context.Context, chatID id.ChatID, userID id.UserID, action models.Action, role string) (*models.Decision, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/chats/{chatID}/permissions", h.HandleValidate)
}

// HandleValidate answers 200 for both outcomes; the decision is in the body.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	chatID := id.ChatID(chi.URLParam(r, "chatID"))
	decision, err := h.service.Validate(ctx, chatID, userID, req.Action, requestcontext.Role(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "permission check failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decision)
}
