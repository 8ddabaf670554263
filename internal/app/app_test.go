package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	jobmodels "chatguard/internal/jobs/models"
	jwttoken "chatguard/internal/jwt_token"
	"chatguard/internal/platform/config"
	retentionmodels "chatguard/internal/retention/models"
	httptransport "chatguard/internal/transport/http"
	"chatguard/pkg/testutil"
)

// AppSuite builds the graph once: every module registers its Prometheus
// collectors on the default registry.
type AppSuite struct {
	suite.Suite
	app    *App
	router http.Handler
	jwt    *jwttoken.JWTService
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupSuite() {
	cfg := config.Config{
		Jobs: config.JobsConfig{AdminToken: "cron-secret"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := Build(context.Background(), cfg, logger)
	s.Require().NoError(err)
	s.app = a

	s.jwt = jwttoken.NewJWTService("test-key", "issuer", "chatguard")
	s.router = httptransport.NewRouter(a.Routes(cfg, jwttoken.NewJWTServiceAdapter(s.jwt)))
}

func (s *AppSuite) TearDownSuite() {
	s.NoError(s.app.Close(context.Background()))
}

func (s *AppSuite) bearer(userID, role string) string {
	token, err := s.jwt.GenerateAccessToken(userID, role, time.Hour)
	s.Require().NoError(err)
	return "Bearer " + token
}

// =============================================================================
// Wiring
// =============================================================================

func (s *AppSuite) TestBuild() {
	s.Run("memory fallbacks need no health checks", func() {
		s.Empty(s.app.HealthChecks)
	})

	s.Run("every maintenance job is registered", func() {
		s.Equal([]string{
			jobmodels.JobCleanupInactiveChats,
			jobmodels.JobCompactRateLimits,
			jobmodels.JobRotateEncryptionKeys,
		}, s.app.Jobs.Names())
	})

	s.Run("first encryption key is bootstrapped", func() {
		key, err := s.app.Keys.ActiveKey(context.Background())
		s.Require().NoError(err)
		s.NotEmpty(key.KeyID)
	})
}

func (s *AppSuite) TestJobs() {
	ctx := context.Background()

	s.Run("cleanup on an empty store deletes nothing", func() {
		out, err := s.app.Jobs.Run(ctx, jobmodels.JobCleanupInactiveChats)
		s.Require().NoError(err)
		report, ok := out.(*retentionmodels.RunReport)
		s.Require().True(ok)
		s.Empty(report.ChatsDeleted)
	})

	s.Run("compaction and rotation succeed", func() {
		_, err := s.app.Jobs.Run(ctx, jobmodels.JobCompactRateLimits)
		s.NoError(err)
		_, err = s.app.Jobs.Run(ctx, jobmodels.JobRotateEncryptionKeys)
		s.NoError(err)
	})
}

// =============================================================================
// HTTP surface
// =============================================================================

func (s *AppSuite) TestRoutes() {
	s.Run("health is ok without backends", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "status", "ok")
	})

	s.Run("authenticated rate limit check", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/v1/ratelimit/check", map[string]string{"action": "message"})
		req.Header.Set("Authorization", s.bearer("app-user-1", "user"))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "remaining", float64(9))
	})

	s.Run("reports require admin", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/reports/security-audit?start=2024-01-01&end=2024-01-31")
		req.Header.Set("Authorization", s.bearer("app-user-1", "user"))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})

	s.Run("job trigger with admin token", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/admin/jobs/"+jobmodels.JobCompactRateLimits)
		req.Header.Set("X-Admin-Token", "cron-secret")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "job", jobmodels.JobCompactRateLimits)
	})

	s.Run("job trigger without token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/admin/jobs/"+jobmodels.JobCompactRateLimits))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}
