package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatguard/pkg/platform/httputil"
	request "chatguard/pkg/platform/middleware/request"
)

type Runner interface {
	Run(ctx context.Context, name string) (any, error)
}

type JobResponse struct {
	Job    string `json:"job"`
	Result any    `json:"result"`
}

// Handler exposes job triggers for the external cron scheduler. The router
// guards these routes with the admin token.
type Handler struct {
	runner Runner
	logger *slog.Logger
}

func New(runner Runner, logger *slog.Logger) *Handler {
	return &Handler{runner: runner, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/jobs/{job}", h.HandleRun)
}

func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	job := chi.URLParam(r, "job")
	result, err := h.runner.Run(ctx, job)
	if err != nil {
		h.logger.ErrorContext(ctx, "job trigger failed",
			"request_id", request.GetRequestID(ctx),
			"job", job,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, JobResponse{Job: job, Result: result})
}
