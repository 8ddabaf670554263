package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chatguard/internal/guard/models"
	sanmodels "chatguard/internal/sanitizer/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/httputil"
	request "chatguard/pkg/platform/middleware/request"
	"chatguard/pkg/requestcontext"
)

type Service interface {
	Admit(ctx context.Context, chatID id.ChatID, userID id.UserID, role, text string, hints sanmodels.Hints) (*models.Admission, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/chats/{chatID}/messages/admit", h.HandleAdmit)
}

// HandleAdmit answers 200 when admitted, 403 for a permission rejection and
// 429 for a rate-limit rejection. The admission is the body in every case.
func (h *Handler) HandleAdmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.AdmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	chatID := id.ChatID(chi.URLParam(r, "chatID"))
	admission, err := h.service.Admit(ctx, chatID, userID, requestcontext.Role(ctx), req.Text, req.Hints)
	if err != nil {
		h.logger.ErrorContext(ctx, "message admission failed",
			"request_id", requestID,
			"chat_id", chatID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	switch admission.Stage {
	case models.StagePermission:
		httputil.WriteJSON(w, http.StatusForbidden, admission)
	case models.StageRateLimit:
		w.Header().Set("Retry-After", strconv.Itoa(admission.RetryAfter))
		httputil.WriteJSON(w, http.StatusTooManyRequests, admission)
	default:
		httputil.WriteJSON(w, http.StatusOK, admission)
	}
}
