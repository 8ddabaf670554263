package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"chatguard/internal/jobs"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/testutil"
)

func TestHandleRun(t *testing.T) {
	runner := jobs.NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
	runner.Register("rotate-encryption-keys", func(context.Context) (any, error) {
		return map[string]string{"key_id": "k-1"}, nil
	})
	runner.Register("broken", func(context.Context) (any, error) {
		return nil, dErrors.New(dErrors.CodeInternal, "store down")
	})

	r := chi.NewRouter()
	New(runner, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	t.Run("runs the named job", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/admin/jobs/rotate-encryption-keys"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "job", "rotate-encryption-keys")
		testutil.AssertJSONContains(t, rr, "result", map[string]any{"key_id": "k-1"})
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/admin/jobs/nope"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	t.Run("job failure hides internals", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/admin/jobs/broken"))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
	})
}
