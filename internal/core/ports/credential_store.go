package ports

import (
	"time"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// CredentialStore persists session and tenant selection state in a durable
// key-value backend. It holds data only; all policy lives in the services.
//
// Write discipline: the credential and auth markers are written only by the
// session manager, the tenant selection only by the tenant resolver. No
// other component writes either.
type CredentialStore interface {
	// Credential returns the stored token pair. An empty Credential with a
	// nil error means nothing is stored.
	Credential() (domain.Credential, error)
	SaveCredential(domain.Credential) error
	// ClearSession removes the credential and the auth markers. Idempotent.
	ClearSession() error

	// SelectedTenant returns the persisted tenant slug and, when present,
	// the cached tenant object. A corrupted cached object yields an error;
	// callers clear the selection and fall through.
	SelectedTenant() (slug string, cached *domain.Tenant, err error)
	SaveSelectedTenant(slug string, tenant *domain.Tenant) error
	// ClearTenant removes the persisted selection. Idempotent.
	ClearTenant() error

	// MarkAuthSuccess records a diagnostic timestamp after a successful
	// login or renewal. Read back by LastAuthSuccess for status surfaces.
	MarkAuthSuccess(at time.Time) error
	LastAuthSuccess() (time.Time, bool)
}
