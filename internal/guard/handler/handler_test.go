package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"chatguard/internal/guard/handler/mocks"
	"chatguard/internal/guard/models"
	sanmodels "chatguard/internal/sanitizer/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/testutil"
)

type AdmitHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestAdmitHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdmitHandlerSuite))
}

func (s *AdmitHandlerSuite) SetupTest() {
	s.service = mocks.NewMockService(gomock.NewController(s.T()))
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *AdmitHandlerSuite) post(body models.AdmitRequest) *http.Request {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/chats/chat-1/messages/admit", body)
	return testutil.WithCaller(req, "alice", id.RoleUser)
}

func (s *AdmitHandlerSuite) TestAdmit() {
	s.Run("admitted message", func() {
		s.service.EXPECT().Admit(gomock.Any(), id.ChatID("chat-1"), id.UserID("alice"), id.RoleUser, "hi", sanmodels.Hints{}).
			Return(&models.Admission{Admitted: true, Message: &sanmodels.Result{Content: "hi"}}, nil)

		rr := testutil.DoRequest(s.router, s.post(models.AdmitRequest{Text: "hi"}))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "admitted", true)
	})

	s.Run("permission rejection is a 403", func() {
		s.service.EXPECT().Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(models.Rejected(models.StagePermission, "User suspended"), nil)

		rr := testutil.DoRequest(s.router, s.post(models.AdmitRequest{Text: "hi"}))
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
		testutil.AssertJSONContains(s.T(), rr, "stage", "permission")
		testutil.AssertJSONContains(s.T(), rr, "reason", "User suspended")
	})

	s.Run("rate-limit rejection is a 429 with Retry-After", func() {
		a := models.Rejected(models.StageRateLimit, "Too many messages")
		a.RetryAfter = 42
		s.service.EXPECT().Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(a, nil)

		rr := testutil.DoRequest(s.router, s.post(models.AdmitRequest{Text: "hi"}))
		testutil.AssertStatus(s.T(), rr, http.StatusTooManyRequests)
		s.Equal("42", rr.Header().Get("Retry-After"))
	})

	s.Run("blank text is a 400", func() {
		rr := testutil.DoRequest(s.router, s.post(models.AdmitRequest{Text: "  "}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("anonymous caller is a 401", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/chats/chat-1/messages/admit", models.AdmitRequest{Text: "hi"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}
