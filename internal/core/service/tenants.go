package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/ports"
	"github.com/paquexpress/client-go/internal/metrics"
)

// DefaultRedirectDelay is how long a host-driven resolution miss waits
// before navigating to the administrative domain. The delay gives the shell
// a chance to render the "unknown subdomain" notice first.
const DefaultRedirectDelay = 3 * time.Second

// Tenants implements ports.TenantService. It is the only writer of the
// persisted tenant selection.
type Tenants struct {
	store      ports.CredentialStore
	backend    ports.Backend
	baseDomain string
	log        zerolog.Logger

	mu      sync.Mutex
	active  *domain.Tenant
	profile *domain.Profile
	known   []domain.Tenant

	redirectDelay time.Duration
	redirectTimer *time.Timer
	onRedirect    func(ports.RedirectCommand)
}

func NewTenants(store ports.CredentialStore, backend ports.Backend, baseDomain string, log zerolog.Logger) *Tenants {
	return &Tenants{
		store:         store,
		backend:       backend,
		baseDomain:    baseDomain,
		log:           log,
		redirectDelay: DefaultRedirectDelay,
	}
}

// OnRedirect registers the shell callback that executes a scheduled
// redirect. The resolver itself never navigates.
func (t *Tenants) OnRedirect(fn func(ports.RedirectCommand)) {
	t.mu.Lock()
	t.onRedirect = fn
	t.mu.Unlock()
}

// Resolve picks the active tenant for host using the ordered fallback
// chain: host-driven, cache-driven, default-selection. Each step runs only
// if the previous did not resolve. An empty resolution (no tenant, no
// redirect) means "no tenant selected" and is not an error.
func (t *Tenants) Resolve(ctx context.Context, host string) (*ports.TenantResolution, error) {
	match := ResolveDomain(host, t.baseDomain)

	// Step 1: host-driven. A tenant host either resolves against the fresh
	// list or schedules a recovery redirect; it never falls through.
	if match.Kind == DomainTenant {
		list, err := t.backend.ListTenants(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", match.Slug, err)
		}
		t.rememberList(list)
		if found := findSlug(list, match.Slug); found != nil {
			if err := t.activate(ctx, found); err != nil {
				return nil, err
			}
			metrics.TenantResolutionsTotal.WithLabelValues("host").Inc()
			t.log.Info().Str("slug", found.Slug).Str("step", "host").Msg("tenant: resolved")
			return t.resolution(), nil
		}
		cmd := ports.RedirectCommand{
			URL:   "https://" + t.baseDomain,
			Delay: t.redirectDelay,
		}
		t.scheduleRedirect(cmd)
		metrics.TenantResolutionsTotal.WithLabelValues("redirect").Inc()
		t.log.Warn().Str("slug", match.Slug).Msg("tenant: subdomain has no matching tenant, redirect scheduled")
		return &ports.TenantResolution{Redirect: &cmd}, nil
	}

	// Step 2: cache-driven. Restores the persisted selection without
	// re-validating against a fresh list. Cache wins over default.
	slug, cached, err := t.store.SelectedTenant()
	if err != nil {
		t.log.Warn().Err(err).Msg("tenant: cached selection unreadable, clearing")
		_ = t.store.ClearTenant()
	} else if slug != "" && cached != nil {
		if err := t.activate(ctx, cached); err != nil {
			return nil, err
		}
		metrics.TenantResolutionsTotal.WithLabelValues("cache").Inc()
		t.log.Info().Str("slug", cached.Slug).Str("step", "cache").Msg("tenant: resolved")
		return t.resolution(), nil
	}

	// Step 3: default-selection, administrative hosts only.
	if match.Kind == DomainAdmin {
		list, err := t.backend.ListTenants(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve default: %w", err)
		}
		t.rememberList(list)
		if len(list) > 0 {
			if err := t.activate(ctx, &list[0]); err != nil {
				return nil, err
			}
			metrics.TenantResolutionsTotal.WithLabelValues("default").Inc()
			t.log.Info().Str("slug", list[0].Slug).Str("step", "default").Msg("tenant: resolved")
			return t.resolution(), nil
		}
	}

	// Step 4: unresolved. Dependent surfaces show "no tenant selected".
	metrics.TenantResolutionsTotal.WithLabelValues("unresolved").Inc()
	return &ports.TenantResolution{}, nil
}

// Switch activates the tenant with the given slug. When trusted is non-nil
// the list lookup is skipped. On ErrTenantNotFound the active tenant is
// unchanged.
func (t *Tenants) Switch(ctx context.Context, slug string, trusted *domain.Tenant) error {
	target := trusted
	if target == nil {
		t.mu.Lock()
		known := t.known
		t.mu.Unlock()
		if len(known) == 0 {
			list, err := t.backend.ListTenants(ctx)
			if err != nil {
				return fmt.Errorf("switch %q: %w", slug, err)
			}
			t.rememberList(list)
			known = list
		}
		target = findSlug(known, slug)
		if target == nil {
			return fmt.Errorf("switch %q: %w", slug, domain.ErrTenantNotFound)
		}
	}
	if err := t.activate(ctx, target); err != nil {
		return err
	}
	t.log.Info().Str("slug", target.Slug).Msg("tenant: switched")
	return nil
}

func (t *Tenants) Active() (*domain.Tenant, *domain.Profile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active, t.profile
}

// ActiveProfile feeds the permission evaluator.
func (t *Tenants) ActiveProfile() *domain.Profile {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.profile
}

// TenantSlug exposes the active slug to the request gateway for header
// injection. Empty until a tenant is active.
func (t *Tenants) TenantSlug() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return ""
	}
	return t.active.Slug
}

// Reset drops the active tenant, profile and persisted selection. Wired as
// a session logout hook.
func (t *Tenants) Reset() {
	t.mu.Lock()
	t.active = nil
	t.profile = nil
	t.known = nil
	t.mu.Unlock()
	_ = t.store.ClearTenant()
}

// Close cancels any pending redirect timer.
func (t *Tenants) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.redirectTimer != nil {
		t.redirectTimer.Stop()
		t.redirectTimer = nil
	}
}

// activate fetches the profile for tenant and then swaps tenant and profile
// together, so the pair is never observed inconsistent.
func (t *Tenants) activate(ctx context.Context, tenant *domain.Tenant) error {
	profile, err := t.backend.TenantProfile(ctx, tenant.Slug)
	if err != nil {
		return fmt.Errorf("fetch profile for %q: %w", tenant.Slug, err)
	}
	if err := t.store.SaveSelectedTenant(tenant.Slug, tenant); err != nil {
		return fmt.Errorf("persist tenant selection: %w", err)
	}
	t.mu.Lock()
	t.active = tenant
	t.profile = profile
	t.mu.Unlock()
	return nil
}

func (t *Tenants) resolution() *ports.TenantResolution {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &ports.TenantResolution{Tenant: t.active, Profile: t.profile}
}

func (t *Tenants) rememberList(list []domain.Tenant) {
	t.mu.Lock()
	t.known = list
	t.mu.Unlock()
}

func (t *Tenants) scheduleRedirect(cmd ports.RedirectCommand) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.redirectTimer != nil {
		t.redirectTimer.Stop()
	}
	fn := t.onRedirect
	if fn == nil {
		return
	}
	t.redirectTimer = time.AfterFunc(cmd.Delay, func() { fn(cmd) })
}

func findSlug(list []domain.Tenant, slug string) *domain.Tenant {
	for i := range list {
		if list[i].Slug == slug {
			return &list[i]
		}
	}
	return nil
}
