package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// stubStore is an in-memory ports.CredentialStore.
type stubStore struct {
	mu sync.Mutex

	cred       domain.Credential
	credErr    error
	slug       string
	tenant     *domain.Tenant
	tenantErr  error
	lastAuth   time.Time
	hasAuth    bool
	saveErr    error
	clearCalls int
}

func newStubStore() *stubStore {
	return &stubStore{}
}

func (s *stubStore) Credential() (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credErr != nil {
		return domain.Credential{}, s.credErr
	}
	return s.cred, nil
}

func (s *stubStore) SaveCredential(cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cred = cred
	return nil
}

func (s *stubStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = domain.Credential{}
	s.hasAuth = false
	s.clearCalls++
	return nil
}

func (s *stubStore) SelectedTenant() (string, *domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tenantErr != nil {
		return "", nil, s.tenantErr
	}
	var cached *domain.Tenant
	if s.tenant != nil {
		clone := *s.tenant
		cached = &clone
	}
	return s.slug, cached, nil
}

func (s *stubStore) SaveSelectedTenant(slug string, tenant *domain.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slug = slug
	if tenant != nil {
		clone := *tenant
		s.tenant = &clone
	}
	return nil
}

func (s *stubStore) ClearTenant() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slug = ""
	s.tenant = nil
	s.tenantErr = nil
	return nil
}

func (s *stubStore) MarkAuthSuccess(at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAuth = at
	s.hasAuth = true
	return nil
}

func (s *stubStore) LastAuthSuccess() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth, s.hasAuth
}

// stubBackend is a scriptable ports.Backend.
type stubBackend struct {
	mu sync.Mutex

	loginCred domain.Credential
	loginUser *domain.User
	loginErr  error

	refreshAccess string
	refreshErr    error
	refreshCalls  int
	refreshDelay  time.Duration

	user    *domain.User
	userErr error

	tenants    []domain.Tenant
	tenantsErr error
	listCalls  int

	profiles   map[string]*domain.Profile
	profileErr error
}

func newStubBackend() *stubBackend {
	return &stubBackend{profiles: make(map[string]*domain.Profile)}
}

func (b *stubBackend) Login(_ context.Context, email, password string) (domain.Credential, *domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loginErr != nil {
		return domain.Credential{}, nil, b.loginErr
	}
	return b.loginCred, b.loginUser, nil
}

func (b *stubBackend) Refresh(_ context.Context, refreshToken string) (string, error) {
	b.mu.Lock()
	b.refreshCalls++
	delay := b.refreshDelay
	access, errOut := b.refreshAccess, b.refreshErr
	b.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if errOut != nil {
		return "", errOut
	}
	return access, nil
}

func (b *stubBackend) CurrentUser(context.Context) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.userErr != nil {
		return nil, b.userErr
	}
	return b.user, nil
}

func (b *stubBackend) ListTenants(context.Context) ([]domain.Tenant, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++
	if b.tenantsErr != nil {
		return nil, b.tenantsErr
	}
	out := make([]domain.Tenant, len(b.tenants))
	copy(out, b.tenants)
	return out, nil
}

func (b *stubBackend) TenantProfile(_ context.Context, slug string) (*domain.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.profileErr != nil {
		return nil, b.profileErr
	}
	profile, ok := b.profiles[slug]
	if !ok {
		return nil, errors.New("no profile scripted for " + slug)
	}
	clone := *profile
	return &clone, nil
}

func (b *stubBackend) refreshCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
