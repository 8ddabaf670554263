package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chatguard/internal/ratelimit/models"
	"chatguard/internal/ratelimit/service"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/httputil"
	request "chatguard/pkg/platform/middleware/request"
	"chatguard/pkg/requestcontext"
)

type Service interface {
	Check(ctx context.Context, userID id.UserID, action models.Action, opts ...service.CheckOption) (*models.RateLimitResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the rate limit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ratelimit/check", h.HandleCheck)
}

// HandleCheck consumes one unit of the caller's quota for the given action.
// This endpoint always fails open on store errors.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.service.Check(ctx, userID, models.Action(req.Action), service.WithErrorPolicy(models.FailOpen))
	if err != nil {
		h.logger.WarnContext(ctx, "rate limit check failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	addRateLimitHeaders(w, result)
	if !result.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
		httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
			Error:      "rate_limit_exceeded",
			Message:    "Too many " + req.Action + " actions. Please try again later.",
			RetryAfter: result.RetryAfter,
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}
