package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/core/ports"
	"github.com/paquexpress/client-go/internal/metrics"
)

// DefaultRenewThreshold is how close to expiry the access token may get
// before the startup sequence renews it.
const DefaultRenewThreshold = 300 * time.Second

// Session implements ports.SessionService. It is the only writer of the
// persisted credential and auth markers.
type Session struct {
	store   ports.CredentialStore
	backend ports.Backend
	log     zerolog.Logger

	mu    sync.RWMutex
	state domain.SessionState
	cred  domain.Credential
	user  *domain.User

	renew    singleflight.Group
	now      func() time.Time
	onLogout []func()
}

func NewSession(store ports.CredentialStore, backend ports.Backend, log zerolog.Logger) *Session {
	return &Session{
		store:   store,
		backend: backend,
		log:     log,
		state:   domain.SessionUnauthenticated,
		now:     time.Now,
	}
}

// Bootstrap runs once per process start, strictly sequentially: decode the
// stored credential, renew when near expiry, then fetch the user snapshot.
// A cleanly unauthenticated start (no stored credential) is not an error.
func (s *Session) Bootstrap(ctx context.Context) error {
	cred, err := s.store.Credential()
	if err != nil {
		s.log.Warn().Err(err).Msg("session: stored credential unreadable, logging out")
		return s.Logout(ctx)
	}
	if cred.Empty() {
		return nil
	}

	s.mu.Lock()
	s.cred = cred
	s.state = domain.SessionAuthenticated
	s.mu.Unlock()

	if cred.NearExpiry(s.now(), DefaultRenewThreshold) {
		if err := s.Renew(ctx); err != nil {
			// Renew already cleared the session on fatal failures.
			return fmt.Errorf("bootstrap renew: %w", err)
		}
	}

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			// Transient: keep the session, the caller can retry.
			return fmt.Errorf("bootstrap user fetch: %w", err)
		}
		// A valid-looking token rejected by the user-info endpoint means
		// the session was invalidated server-side.
		s.log.Warn().Err(err).Msg("session: user fetch rejected, logging out")
		_ = s.Logout(ctx)
		return fmt.Errorf("bootstrap user fetch: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.log.Info().Str("user_id", user.ID).Msg("session: restored")
	return nil
}

// Login exchanges credentials for a fresh token pair, overwriting any prior
// credential. On rejection no state is mutated.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.setState(domain.SessionAuthenticating)

	cred, user, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.setState(domain.SessionUnauthenticated)
		return nil, err
	}

	if err := s.store.SaveCredential(cred); err != nil {
		s.setState(domain.SessionUnauthenticated)
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	_ = s.store.MarkAuthSuccess(s.now())

	s.mu.Lock()
	s.cred = cred
	s.user = user
	s.state = domain.SessionAuthenticated
	s.mu.Unlock()

	s.log.Info().Str("user_id", user.ID).Msg("session: authenticated")
	return user, nil
}

// Renew refreshes the access token using the stored refresh token. The
// operation is single-flight: concurrent callers share one in-flight
// renewal instead of issuing duplicate refresh calls. On success only the
// access token is replaced. ErrNoRefreshToken and ErrRefreshFailed are
// fatal to the session; network and server errors are not.
func (s *Session) Renew(ctx context.Context) error {
	_, err, _ := s.renew.Do("renew", func() (any, error) {
		return nil, s.renewOnce(ctx)
	})
	return err
}

func (s *Session) renewOnce(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.cred.RefreshToken
	prev := s.state
	s.state = domain.SessionRenewing
	s.mu.Unlock()

	if refresh == "" {
		s.log.Warn().Msg("session: renewal impossible, no refresh token")
		_ = s.logoutLocked(ctx)
		return domain.ErrNoRefreshToken
	}

	access, err := s.backend.Refresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) || errors.Is(err, domain.ErrServer) {
			metrics.RenewalsTotal.WithLabelValues("network_error").Inc()
			s.setState(prev)
			return fmt.Errorf("renew: %w", err)
		}
		metrics.RenewalsTotal.WithLabelValues("rejected").Inc()
		s.log.Warn().Err(err).Msg("session: renewal rejected, logging out")
		_ = s.logoutLocked(ctx)
		return fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
	}
	metrics.RenewalsTotal.WithLabelValues("ok").Inc()

	s.mu.Lock()
	s.cred.AccessToken = access
	cred := s.cred
	s.state = domain.SessionAuthenticated
	s.mu.Unlock()

	if err := s.store.SaveCredential(cred); err != nil {
		return fmt.Errorf("persist renewed credential: %w", err)
	}
	_ = s.store.MarkAuthSuccess(s.now())
	s.log.Debug().Msg("session: access token renewed")
	return nil
}

// Logout clears credential, user and persisted session state. Idempotent.
func (s *Session) Logout(ctx context.Context) error {
	return s.logoutLocked(ctx)
}

func (s *Session) logoutLocked(_ context.Context) error {
	s.mu.Lock()
	s.cred = domain.Credential{}
	s.user = nil
	s.state = domain.SessionUnauthenticated
	hooks := s.onLogout
	s.mu.Unlock()

	if err := s.store.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// OnLogout registers a callback run after every logout, including the forced
// logout on renewal failure. The tenant resolver uses it to drop its derived
// state, keeping the single-writer discipline on the tenant selection.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

func (s *Session) NearExpiry(threshold time.Duration) bool {
	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()
	return cred.NearExpiry(s.now(), threshold)
}

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken exposes the current bearer token to the request gateway.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken
}

func (s *Session) setState(st domain.SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
