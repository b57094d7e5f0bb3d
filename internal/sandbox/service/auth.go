// Package service implements the sandbox use cases behind the API
// handlers: credential issuance and renewal, and empresa membership
// queries.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/sandbox/repository"
)

// Auth implements login and token renewal.
type Auth struct {
	accounts   repository.AccountRepository
	tokens     repository.RefreshTokenRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewAuth(accounts repository.AccountRepository, tokens repository.RefreshTokenRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *Auth {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &Auth{
		accounts:   accounts,
		tokens:     tokens,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Login verifies the password and issues a token pair. The previous refresh
// tokens stay valid: the client may be logged in from several devices.
func (a *Auth) Login(ctx context.Context, email, password string) (access, refresh string, account *repository.Account, err error) {
	if email == "" || password == "" {
		return "", "", nil, domain.ErrInvalidCredentials
	}

	account, err = a.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", "", nil, domain.ErrInvalidCredentials
		}
		return "", "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		a.log.Warn().Str("email", email).Msg("sandbox: failed login attempt")
		return "", "", nil, domain.ErrInvalidCredentials
	}

	access, err = a.signAccessToken(account)
	if err != nil {
		return "", "", nil, fmt.Errorf("sign access token: %w", err)
	}

	raw, hash, err := generateRefreshToken()
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}
	err = a.tokens.Store(ctx, &repository.RefreshToken{
		AccountID: account.ID,
		Hash:      hash,
		ExpiresAt: time.Now().Add(a.refreshTTL),
	})
	if err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	a.log.Info().Str("account_id", account.ID).Msg("sandbox: login")
	return access, raw, account, nil
}

// Refresh validates the refresh token and issues a new access token. The
// refresh token itself is not rotated, matching the production contract:
// renewal replaces the access token only.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	stored, err := a.tokens.Find(ctx, hashToken(refreshToken))
	if err != nil {
		return "", repository.ErrTokenNotFound
	}
	if stored.ExpiresAt.Before(time.Now()) {
		a.log.Warn().Str("account_id", stored.AccountID).Msg("sandbox: expired refresh token used")
		return "", repository.ErrTokenNotFound
	}

	account, err := a.accounts.FindByID(ctx, stored.AccountID)
	if err != nil {
		return "", repository.ErrTokenNotFound
	}
	return a.signAccessToken(account)
}

// AccountByID fetches the account behind a validated bearer token.
func (a *Auth) AccountByID(ctx context.Context, id string) (*repository.Account, error) {
	return a.accounts.FindByID(ctx, id)
}

// Logout revokes every refresh token for the account. Idempotent.
func (a *Auth) Logout(ctx context.Context, accountID string) error {
	return a.tokens.RevokeAll(ctx, accountID)
}

func (a *Auth) signAccessToken(account *repository.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"exp":   now.Add(a.accessTTL).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.jwtSecret)
}

func generateRefreshToken() (raw string, hashed string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
