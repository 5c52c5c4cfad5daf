package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/internal/auth"
	"github.com/campusfound/lostfound-backend/internal/users"
	pkgerrors "github.com/campusfound/lostfound-backend/pkg/errors"
)

type stubAuthService struct {
	loginResp     *auth.TokenResponse
	err           error
	refreshAccess string
	refreshToken  string
	loggedOut     string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return s.loginResp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.TokenResponse, error) {
	s.refreshAccess = accessToken
	s.refreshToken = refreshToken
	return s.loginResp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) error {
	s.loggedOut = accessToken
	return s.err
}

type stubRegisterService struct {
	req  auth.RegisterRequest
	user *users.UserDTO
	err  error
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.req = req
	return s.user, s.err
}

func TestAuthRegisterSignsIn(t *testing.T) {
	user := &users.UserDTO{ID: uuid.New(), Email: "maya@campus.edu"}
	reg := &stubRegisterService{user: user}
	svc := &stubAuthService{loginResp: &auth.TokenResponse{AccessToken: "access", RefreshToken: "refresh", User: user}}

	body := map[string]any{
		"first_name": "Maya",
		"last_name":  "Chen",
		"email":      "maya@campus.edu",
		"password":   "Campus!2024x",
		"student_id": "STU12345",
	}
	req := newRequest(http.MethodPost, "/api/v1/auth/register", body, uuid.Nil, "", nil)
	resp := httptest.NewRecorder()
	AuthRegister(reg, svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if reg.req.StudentID != "STU12345" {
		t.Fatalf("unexpected register request %+v", reg.req)
	}
	var data auth.TokenResponse
	decodeData(t, resp, &data)
	if data.AccessToken != "access" || data.User == nil || data.User.ID != user.ID {
		t.Fatalf("unexpected token response %+v", data)
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	body := map[string]any{
		"first_name": "Maya", "last_name": "Chen", "email": "maya@campus.edu",
		"password": "Campus!2024x", "student_id": "STU12345",
	}
	req := newRequest(http.MethodPost, "/", body, uuid.Nil, "", nil)
	resp := httptest.NewRecorder()
	AuthRegister(reg, &stubAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAuthRefreshUsesBearerToken(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	req := newRequest(http.MethodPost, "/", map[string]string{"refresh_token": "old-refresh"}, uuid.Nil, "", nil)
	req.Header.Set("Authorization", "Bearer expired-access")
	resp := httptest.NewRecorder()
	AuthRefresh(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.refreshAccess != "expired-access" || svc.refreshToken != "old-refresh" {
		t.Fatalf("unexpected refresh args %q %q", svc.refreshAccess, svc.refreshToken)
	}
}

func TestAuthRefreshRequiresBearer(t *testing.T) {
	req := newRequest(http.MethodPost, "/", map[string]string{"refresh_token": "old-refresh"}, uuid.Nil, "", nil)
	resp := httptest.NewRecorder()
	AuthRefresh(&stubAuthService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	req := newRequest(http.MethodPost, "/", nil, uuid.Nil, "", nil)
	req.Header.Set("Authorization", "Bearer live-access")
	resp := httptest.NewRecorder()
	AuthLogout(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "live-access" {
		t.Fatalf("expected token to be revoked, got %q", svc.loggedOut)
	}
}

func TestAuthLoginNilService(t *testing.T) {
	req := newRequest(http.MethodPost, "/", map[string]string{"email": "a@campus.edu", "password": "x"}, uuid.Nil, "", nil)
	resp := httptest.NewRecorder()
	AuthLogin(nil, testLogger())(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
