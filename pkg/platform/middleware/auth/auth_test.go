package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	id "chatguard/pkg/domain"
	"chatguard/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *AuthMiddlewareSuite) serve(mw func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, *http.Request) {
	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec, seen
}

// =============================================================================
// RequireAuth
// =============================================================================

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	s.Run("missing header is rejected", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec, seen := s.serve(RequireAuth(stubValidator{}, s.logger), req)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Nil(seen)
	})

	s.Run("invalid token is rejected", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec, _ := s.serve(RequireAuth(stubValidator{err: errors.New("bad")}, s.logger), req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("malformed subject is rejected", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ok")
		v := stubValidator{claims: &JWTClaims{UserID: "../etc"}}
		rec, _ := s.serve(RequireAuth(v, s.logger), req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("valid token populates context with default role", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ok")
		v := stubValidator{claims: &JWTClaims{UserID: "user-1"}}
		rec, seen := s.serve(RequireAuth(v, s.logger), req)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Equal(id.UserID("user-1"), requestcontext.UserID(seen.Context()))
		s.Equal(RoleUser, requestcontext.Role(seen.Context()))
	})
}

// =============================================================================
// RequireRole
// =============================================================================

func (s *AuthMiddlewareSuite) TestRequireRole() {
	withRole := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(requestcontext.WithRole(req.Context(), role))
	}

	s.Run("moderator passes staff guard", func() {
		rec, _ := s.serve(RequireRole(s.logger, RoleModerator, RoleAdmin), withRole(RoleModerator))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("user is forbidden", func() {
		rec, _ := s.serve(RequireRole(s.logger, RoleModerator, RoleAdmin), withRole(RoleUser))
		s.Equal(http.StatusForbidden, rec.Code)
	})
}
