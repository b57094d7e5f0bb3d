package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/ports"
)

// Backend is the typed Paquexpress API client. It translates wire payloads
// into domain types and maps rejections onto the domain error taxonomy.
type Backend struct {
	gw *Client
}

var _ ports.Backend = (*Backend)(nil)

func NewBackend(gw *Client) *Backend {
	return &Backend{gw: gw}
}

type wireUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u wireUser) toDomain() *domain.User {
	return &domain.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
	}
}

type loginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         wireUser `json:"user"`
}

func (b *Backend) Login(ctx context.Context, email, password string) (domain.Credential, *domain.User, error) {
	var resp loginResponse
	err := b.gw.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body: map[string]string{
			"email":    email,
			"password": password,
		},
		NoAuth: true,
	}, &resp)
	if err != nil {
		if IsUnauthorized(err) {
			return domain.Credential{}, nil, domain.ErrInvalidCredentials
		}
		return domain.Credential{}, nil, fmt.Errorf("login: %w", err)
	}
	cred := domain.Credential{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	return cred, resp.User.toDomain(), nil
}

func (b *Backend) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := b.gw.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/refresh",
		Body:   map[string]string{"refresh_token": refreshToken},
		NoAuth: true,
	}, &resp)
	if err != nil {
		if IsUnauthorized(err) {
			return "", fmt.Errorf("%w: refresh token rejected", domain.ErrRefreshFailed)
		}
		return "", fmt.Errorf("refresh: %w", err)
	}
	return resp.AccessToken, nil
}

func (b *Backend) CurrentUser(ctx context.Context) (*domain.User, error) {
	var resp wireUser
	if err := b.gw.Do(ctx, Request{Method: http.MethodGet, Path: "/api/auth/me"}, &resp); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return resp.toDomain(), nil
}

type wireTenant struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Name      string            `json:"name"`
	Active    bool              `json:"active"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (b *Backend) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	var resp []wireTenant
	if err := b.gw.Do(ctx, Request{Method: http.MethodGet, Path: "/api/empresas"}, &resp); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	tenants := make([]domain.Tenant, 0, len(resp))
	for _, t := range resp {
		tenants = append(tenants, domain.Tenant{
			ID:        t.ID,
			Slug:      t.Slug,
			Name:      t.Name,
			Active:    t.Active,
			Metadata:  t.Metadata,
			CreatedAt: t.CreatedAt,
		})
	}
	return tenants, nil
}

func (b *Backend) TenantProfile(ctx context.Context, slug string) (*domain.Profile, error) {
	var resp struct {
		Role     string    `json:"role"`
		TenantID string    `json:"tenant_id"`
		JoinedAt time.Time `json:"joined_at"`
	}
	path := fmt.Sprintf("/api/empresas/%s/perfil", slug)
	if err := b.gw.Do(ctx, Request{Method: http.MethodGet, Path: path}, &resp); err != nil {
		return nil, fmt.Errorf("tenant profile: %w", err)
	}
	role, err := domain.ParseRole(resp.Role)
	if err != nil {
		return nil, fmt.Errorf("tenant profile for %q: %w", slug, err)
	}
	return &domain.Profile{
		Role:     role,
		TenantID: resp.TenantID,
		JoinedAt: resp.JoinedAt,
	}, nil
}
