package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatguard/internal/platform/metrics"
	"chatguard/pkg/platform/httputil"
	adminmw "chatguard/pkg/platform/middleware/admin"
	authmw "chatguard/pkg/platform/middleware/auth"
	request "chatguard/pkg/platform/middleware/request"
	"chatguard/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether one backing service is reachable.
type HealthCheck func(ctx context.Context) error

// Deps collects what the router mounts. Nil handlers are skipped.
type Deps struct {
	Logger       *slog.Logger
	JWTValidator authmw.JWTValidator
	AdminToken   string
	HTTPMetrics  *metrics.Metrics
	HealthChecks map[string]HealthCheck

	// Any authenticated caller.
	Permission Registrar
	RateLimit  Registrar
	Sanitizer  Registrar
	Guard      Registrar

	// Moderator or admin.
	Moderation Registrar

	// Admin only.
	Report Registrar

	// X-Admin-Token.
	Jobs Registrar
}

// NewRouter wires all public endpoints. Handlers only register routes; the
// router owns authentication, role gates and the /v1 prefix.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}

	r.Get("/healthz", healthHandler(d.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(authmw.RequireAuth(d.JWTValidator, logger))

		v1.Group(func(user chi.Router) {
			mount(user, d.Permission, d.RateLimit, d.Sanitizer, d.Guard)
		})
		v1.Group(func(staff chi.Router) {
			staff.Use(authmw.RequireRole(logger, authmw.RoleModerator, authmw.RoleAdmin))
			mount(staff, d.Moderation)
		})
		v1.Group(func(admin chi.Router) {
			admin.Use(authmw.RequireRole(logger, authmw.RoleAdmin))
			mount(admin, d.Report)
		})
	})

	r.Group(func(jobs chi.Router) {
		jobs.Use(adminmw.RequireAdminToken(d.AdminToken, logger))
		mount(jobs, d.Jobs)
	})
	return r
}

func mount(r chi.Router, handlers ...Registrar) {
	for _, h := range handlers {
		if h != nil {
			h.Register(r)
		}
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
