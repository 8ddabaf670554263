package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"chatguard/internal/platform/metrics"
	authmw "chatguard/pkg/platform/middleware/auth"
	"chatguard/pkg/requestcontext"
)

var testHTTPMetrics = metrics.New()

type stubValidator map[string]*authmw.JWTClaims

func (v stubValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if c, ok := v[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// echoRoute registers a route that reports the caller it saw.
type echoRoute struct {
	method, path string
}

func (e echoRoute) Register(r chi.Router) {
	r.MethodFunc(e.method, e.path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Caller", requestcontext.UserID(r.Context()).String())
		w.WriteHeader(http.StatusNoContent)
	})
}

type RouterSuite struct {
	suite.Suite
	router http.Handler
	dbDown bool
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.dbDown = false
	s.router = NewRouter(Deps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		JWTValidator: stubValidator{
			"user-token":  {UserID: "alice", Role: authmw.RoleUser},
			"mod-token":   {UserID: "mia", Role: authmw.RoleModerator},
			"admin-token": {UserID: "ada", Role: authmw.RoleAdmin},
		},
		AdminToken:  "cron-secret",
		HTTPMetrics: testHTTPMetrics,
		HealthChecks: map[string]HealthCheck{
			"mongo": func(context.Context) error {
				if s.dbDown {
					return errors.New("no reachable servers")
				}
				return nil
			},
		},
		Permission: echoRoute{http.MethodPost, "/chats/{chatID}/permissions"},
		Moderation: echoRoute{http.MethodGet, "/moderation/users/{userID}"},
		Report:     echoRoute{http.MethodGet, "/reports/security-audit"},
		Jobs:       echoRoute{http.MethodPost, "/admin/jobs/{job}"},
	})
}

func (s *RouterSuite) do(method, path, token string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// =============================================================================
// Authentication and role gates
// =============================================================================

func (s *RouterSuite) TestAuthentication() {
	s.Run("missing token is rejected", func() {
		rr := s.do(http.MethodPost, "/v1/chats/c1/permissions", "")
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("unknown token is rejected", func() {
		rr := s.do(http.MethodPost, "/v1/chats/c1/permissions", "forged")
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("valid token reaches the handler with the caller set", func() {
		rr := s.do(http.MethodPost, "/v1/chats/c1/permissions", "user-token")
		s.Equal(http.StatusNoContent, rr.Code)
		s.Equal("alice", rr.Header().Get("X-Caller"))
		s.NotEmpty(rr.Header().Get("X-Request-ID"))
	})
}

func (s *RouterSuite) TestRoleGates() {
	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"user cannot moderate", http.MethodGet, "/v1/moderation/users/bob", "user-token", http.StatusForbidden},
		{"moderator can moderate", http.MethodGet, "/v1/moderation/users/bob", "mod-token", http.StatusNoContent},
		{"admin can moderate", http.MethodGet, "/v1/moderation/users/bob", "admin-token", http.StatusNoContent},
		{"moderator cannot read reports", http.MethodGet, "/v1/reports/security-audit", "mod-token", http.StatusForbidden},
		{"admin reads reports", http.MethodGet, "/v1/reports/security-audit", "admin-token", http.StatusNoContent},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := s.do(tc.method, tc.path, tc.token)
			s.Equal(tc.status, rr.Code)
		})
	}
}

func (s *RouterSuite) TestAdminJobs() {
	s.Run("bearer token is not enough", func() {
		rr := s.do(http.MethodPost, "/admin/jobs/rotate-encryption-keys", "admin-token")
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("admin token header", func() {
		rr := s.do(http.MethodPost, "/admin/jobs/rotate-encryption-keys", "", "X-Admin-Token", "cron-secret")
		s.Equal(http.StatusNoContent, rr.Code)
	})
}

// =============================================================================
// Operational endpoints
// =============================================================================

func (s *RouterSuite) TestHealthAndMetrics() {
	s.Run("healthy", func() {
		rr := s.do(http.MethodGet, "/healthz", "")
		s.Equal(http.StatusOK, rr.Code)
		s.Contains(rr.Body.String(), `"status":"ok"`)
	})

	s.Run("failing dependency", func() {
		s.dbDown = true
		rr := s.do(http.MethodGet, "/healthz", "")
		s.Equal(http.StatusServiceUnavailable, rr.Code)
		s.Contains(rr.Body.String(), "no reachable servers")
	})

	s.Run("metrics are exposed without auth", func() {
		s.do(http.MethodPost, "/v1/chats/c1/permissions", "user-token")
		rr := s.do(http.MethodGet, "/metrics", "")
		s.Equal(http.StatusOK, rr.Code)
		s.Contains(rr.Body.String(), "chatguard_http_requests_total")
	})
}
