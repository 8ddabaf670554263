package testutil

import (
	"net/http"
	"time"

	id "chatguard/pkg/domain"
	"chatguard/pkg/requestcontext"
)

// WithCaller simulates the auth middleware for handler tests by placing the
// caller's user id and role in the request context.
func WithCaller(req *http.Request, userID string, role string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), id.UserID(userID))
	ctx = requestcontext.WithRole(ctx, role)
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
