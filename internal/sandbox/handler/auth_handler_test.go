package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/paquexpress/client-go/internal/sandbox/repository"
	"github.com/paquexpress/client-go/internal/sandbox/service"
)

func testAuthHandler(t *testing.T) (*echo.Echo, *AuthHandler, *repository.Account) {
	t.Helper()
	mem := repository.NewMemory()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account, err := mem.Accounts().Create(context.Background(), &repository.Account{
		Email:        "dueno@acme.mx",
		DisplayName:  "Mariana Duarte",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	e := echo.New()
	e.Validator = NewValidator()
	auth := service.NewAuth(mem.Accounts(), mem.Tokens(), "test-secret", 15*time.Minute, time.Hour, zerolog.Nop())
	return e, NewAuthHandler(auth), account
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e, handler, _ := testAuthHandler(t)

	body := strings.NewReader(`{"email":"dueno@acme.mx","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	access, _ := resp["access_token"].(string)
	refresh, _ := resp["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair in response: %v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "dueno@acme.mx" {
		t.Fatalf("expected user snapshot, got %v", resp["user"])
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e, handler, _ := testAuthHandler(t)

	body := strings.NewReader(`{"email":"not-an-email","password":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	e, handler, _ := testAuthHandler(t)

	// Login first to obtain a refresh token.
	body := strings.NewReader(`{"email":"dueno@acme.mx","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("login: %v", err)
	}
	var loginResp struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	body = strings.NewReader(`{"refresh_token":"` + loginResp.RefreshToken + `"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	if err := handler.Refresh(e.NewContext(req, rec)); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var refreshResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &refreshResp); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if refreshResp["access_token"] == "" {
		t.Fatalf("expected a new access token")
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e, handler, account := testAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("account_id", account.ID)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != account.ID {
		t.Fatalf("expected own account, got %v", resp["id"])
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e, handler, _ := testAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler.Me(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
