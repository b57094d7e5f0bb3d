package ports

import (
	"context"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// Backend is the typed client for the Paquexpress REST API. Implementations
// route every call through the request gateway, which injects the bearer
// token and the active tenant header.
type Backend interface {
	// Login exchanges credentials for a token pair and the account snapshot.
	// Fails with domain.ErrInvalidCredentials, domain.ErrNetwork or
	// domain.ErrServer.
	Login(ctx context.Context, email, password string) (domain.Credential, *domain.User, error)

	// Refresh exchanges the refresh token for a new access token. The
	// refresh token itself is not rotated by this endpoint.
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)

	// CurrentUser fetches the account behind the bearer token.
	CurrentUser(ctx context.Context) (*domain.User, error)

	// ListTenants fetches every empresa the account belongs to, in backend
	// order. The first entry is the backend's default selection.
	ListTenants(ctx context.Context) ([]domain.Tenant, error)

	// TenantProfile fetches the caller's role assignment within one empresa.
	TenantProfile(ctx context.Context, slug string) (*domain.Profile, error)
}
