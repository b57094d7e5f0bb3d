// Package repository defines the sandbox persistence layer. Two
// implementations exist: in-memory (default, also used by tests) and
// MongoDB for a sandbox that survives restarts.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/paquexpress/client-go/internal/core/domain"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrTokenNotFound   = errors.New("refresh token not found")
	ErrNotMember       = errors.New("account is not a member of this empresa")
)

// Account is a sandbox user with credentials.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

// Membership assigns a role to an account within one empresa.
type Membership struct {
	AccountID string
	TenantID  string
	Role      domain.Role
	JoinedAt  time.Time
}

// RefreshToken is a stored, hashed refresh credential.
type RefreshToken struct {
	AccountID string
	Hash      string
	ExpiresAt time.Time
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
}

type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	// FindBySlug returns the empresa with the given slug, or
	// domain.ErrTenantNotFound.
	FindBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	// ListForAccount returns the empresas the account belongs to, in
	// creation order. The first entry is the default selection.
	ListForAccount(ctx context.Context, accountID string) ([]domain.Tenant, error)
	// Membership returns the account's role within the empresa identified
	// by slug. ErrNotMember when no assignment exists.
	Membership(ctx context.Context, accountID, slug string) (*Membership, error)
	AddMembership(ctx context.Context, m *Membership) error
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, token *RefreshToken) error
	Find(ctx context.Context, hash string) (*RefreshToken, error)
	RevokeAll(ctx context.Context, accountID string) error
}
