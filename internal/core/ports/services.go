package ports

import (
	"context"
	"time"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// SessionService owns the authentication lifecycle.
type SessionService interface {
	// Bootstrap runs the startup sequence: decode the stored credential,
	// renew if near expiry, fetch the user snapshot. Any unrecoverable
	// failure leaves the session cleanly unauthenticated.
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
	// Renew refreshes the access token. Concurrent callers share one
	// in-flight renewal. Failure clears the whole credential.
	Renew(ctx context.Context) error
	// Logout clears credential, user and derived state. Idempotent.
	Logout(ctx context.Context) error
	NearExpiry(threshold time.Duration) bool
	State() domain.SessionState
	User() *domain.User
}

// RedirectCommand is a returned effect: host-driven resolution found no
// matching tenant and the shell should navigate to the administrative
// domain after Delay. The resolver never performs the navigation itself.
type RedirectCommand struct {
	URL   string
	Delay time.Duration
}

// TenantResolution is the outcome of one resolution pass. Either Tenant and
// Profile are both set, or Redirect is set, or all are nil (unresolved: the
// caller treats this as "no tenant selected", not as an error).
type TenantResolution struct {
	Tenant   *domain.Tenant
	Profile  *domain.Profile
	Redirect *RedirectCommand
}

// TenantService resolves and switches the active tenant.
type TenantService interface {
	Resolve(ctx context.Context, host string) (*TenantResolution, error)
	// Switch activates the tenant with the given slug. A non-nil tenant
	// skips list validation (trusted caller). Tenant and profile are always
	// replaced together.
	Switch(ctx context.Context, slug string, trusted *domain.Tenant) error
	Active() (*domain.Tenant, *domain.Profile)
	// Close cancels any scheduled redirect timer.
	Close()
}
