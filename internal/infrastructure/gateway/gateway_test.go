package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/pkg/logger"
)

type fakeSession struct {
	mu       sync.Mutex
	token    string
	slug     string
	renewErr error
	renewed  int
	// renewedToken replaces token when Renew succeeds.
	renewedToken string
}

func (f *fakeSession) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) TenantSlug() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slug
}

func (f *fakeSession) Renew(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renewed++
	if f.renewErr != nil {
		return f.renewErr
	}
	f.token = f.renewedToken
	return nil
}

func newTestClient(t *testing.T, handler http.Handler, session *fakeSession) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.Client(), srv.URL, logger.Init(logger.Options{Level: "error"}))
	client.Bind(session, session, session)
	return client, srv
}

func TestClient_InjectsHeaders(t *testing.T) {
	var got http.Header
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	})
	session := &fakeSession{token: "token_1", slug: "acme"}
	client, _ := newTestClient(t, handler, session)

	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/empresas"}, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if auth := got.Get("Authorization"); auth != "Bearer token_1" {
		t.Fatalf("unexpected Authorization header: %q", auth)
	}
	if tenant := got.Get("X-Tenant"); tenant != "acme" {
		t.Fatalf("unexpected X-Tenant header: %q", tenant)
	}
	if got.Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestClient_NoAuthSkipsBearer(t *testing.T) {
	var got http.Header
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	})
	session := &fakeSession{token: "token_1"}
	client, _ := newTestClient(t, handler, session)

	req := Request{Method: http.MethodPost, Path: "/api/auth/login", Body: map[string]string{"email": "a"}, NoAuth: true}
	if err := client.Do(context.Background(), req, nil); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if auth := got.Get("Authorization"); auth != "" {
		t.Fatalf("login request must not carry a bearer token, got %q", auth)
	}
}

func TestClient_UnauthorizedRenewsAndRetriesOnce(t *testing.T) {
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("Authorization") != "Bearer token_2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"token expired"}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})
	session := &fakeSession{token: "token_1", renewedToken: "token_2"}
	client, _ := newTestClient(t, handler, session)

	var out map[string]bool
	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/auth/me"}, &out); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if session.renewed != 1 {
		t.Fatalf("expected one renewal, got %d", session.renewed)
	}
	if requests != 2 {
		t.Fatalf("expected the original attempt plus one replay, got %d requests", requests)
	}
	if !out["ok"] {
		t.Fatalf("replayed response not decoded")
	}
}

func TestClient_SecondUnauthorizedSurfaces(t *testing.T) {
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"still invalid"}`))
	})
	session := &fakeSession{token: "token_1", renewedToken: "token_2"}
	client, _ := newTestClient(t, handler, session)

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/auth/me"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized APIError, got %v", err)
	}
	if apiErr.Message != "still invalid" {
		t.Fatalf("error envelope not decoded, got %q", apiErr.Message)
	}
	if requests != 2 {
		t.Fatalf("a second rejection must not trigger another replay, got %d requests", requests)
	}
	if session.renewed != 1 {
		t.Fatalf("expected exactly one renewal, got %d", session.renewed)
	}
}

func TestClient_RenewFailureStopsRetry(t *testing.T) {
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	})
	session := &fakeSession{token: "token_1", renewErr: domain.ErrRefreshFailed}
	client, _ := newTestClient(t, handler, session)

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/auth/me"}, nil)
	if !errors.Is(err, domain.ErrRefreshFailed) {
		t.Fatalf("expected the renewal failure to surface, got %v", err)
	}
	if requests != 1 {
		t.Fatalf("failed renewal must not replay the request, got %d requests", requests)
	}
}

func TestClient_NetworkErrorNeverRenews(t *testing.T) {
	session := &fakeSession{token: "token_1"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	client := NewClient(nil, url, logger.Init(logger.Options{Level: "error"}))
	client.Bind(session, session, session)

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/auth/me"}, nil)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if session.renewed != 0 {
		t.Fatalf("a network failure must never trigger renewal, got %d", session.renewed)
	}
}

func TestClient_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	session := &fakeSession{token: "token_1"}
	client, _ := newTestClient(t, handler, session)

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/empresas"}, nil)
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if session.renewed != 0 {
		t.Fatalf("a server error must not trigger renewal")
	}
}
