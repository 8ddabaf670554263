package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"chatguard/internal/permission/handler/mocks"
	"chatguard/internal/permission/models"
	id "chatguard/pkg/domain"
	dErrors "chatguard/pkg/domain-errors"
	"chatguard/pkg/testutil"
)

type PermissionHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestPermissionHandlerSuite(t *testing.T) {
	suite.Run(t, new(PermissionHandlerSuite))
}

func (s *PermissionHandlerSuite) SetupTest() {
	s.service = mocks.NewMockService(gomock.NewController(s.T()))
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *PermissionHandlerSuite) TestValidate() {
	s.Run("passes chat, caller and role to the service", func() {
		s.service.EXPECT().
			Validate(gomock.Any(), id.ChatID("chat-1"), id.UserID("alice"), models.ActionModerate, id.RoleModerator).
			Return(models.Allow(), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/chats/chat-1/permissions", models.CheckRequest{Action: models.ActionModerate})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "alice", id.RoleModerator))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "allowed", true)
	})

	s.Run("denial is a 200 with the reason", func() {
		s.service.EXPECT().Validate(gomock.Any(), gomock.Any(), gomock.Any(), models.ActionWrite, gomock.Any()).
			Return(models.Deny(models.ReasonRestricted), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/chats/chat-1/permissions", models.CheckRequest{Action: models.ActionWrite})
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "alice", id.RoleUser))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "allowed", false)
		testutil.AssertJSONContains(s.T(), rr, "reason", models.ReasonRestricted)
	})

	s.Run("unknown action is a 400", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/chats/chat-1/permissions", `{"action":"delete"}`)
		rr := testutil.DoRequest(s.router, testutil.WithCaller(req, "alice", id.RoleUser))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("anonymous caller is a 401", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/chats/chat-1/permissions", models.CheckRequest{Action: models.ActionRead})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})
}
