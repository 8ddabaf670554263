package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"chatguard/internal/report/models"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/platform/httputil"
	request "chatguard/pkg/platform/middleware/request"
)

const dateLayout = "2006-01-02"

type Service interface {
	Generate(ctx context.Context, start, end time.Time, includeDetails bool) (*models.AuditReport, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/security-audit", h.HandleSecurityAudit)
}

func (h *Handler) HandleSecurityAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	q := r.URL.Query()

	start, err := parseBound(q.Get("start"), false)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "start must be RFC3339 or YYYY-MM-DD"))
		return
	}
	end, err := parseBound(q.Get("end"), true)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "end must be RFC3339 or YYYY-MM-DD"))
		return
	}
	includeDetails := false
	if raw := q.Get("includeDetails"); raw != "" {
		includeDetails, err = strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "includeDetails must be a boolean"))
			return
		}
	}

	report, err := h.service.Generate(ctx, start, end, includeDetails)
	if err != nil {
		h.logger.ErrorContext(ctx, "security audit report failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// parseBound accepts RFC3339 or a bare date. A bare end date covers the
// whole day.
func parseBound(raw string, isEnd bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if isEnd {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
