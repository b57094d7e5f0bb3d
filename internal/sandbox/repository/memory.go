package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// Memory holds the in-memory sandbox state. Repository views over it are
// obtained with Accounts, Tenants and Tokens. Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	accounts    map[string]*Account // by ID
	tenants     map[string]*domain.Tenant
	memberships []*Membership
	tokens      map[string]*RefreshToken // by hash
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*Account),
		tenants:  make(map[string]*domain.Tenant),
		tokens:   make(map[string]*RefreshToken),
	}
}

func (m *Memory) Accounts() AccountRepository    { return &memoryAccounts{m} }
func (m *Memory) Tenants() TenantRepository      { return &memoryTenants{m} }
func (m *Memory) Tokens() RefreshTokenRepository { return &memoryTokens{m} }

type memoryAccounts struct{ m *Memory }

func (r *memoryAccounts) Create(_ context.Context, account *Account) (*Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return nil, ErrAccountExists
		}
	}
	clone := *account
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.m.accounts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memoryAccounts) FindByEmail(_ context.Context, email string) (*Account, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, a := range r.m.accounts {
		if strings.EqualFold(a.Email, email) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *memoryAccounts) FindByID(_ context.Context, id string) (*Account, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	a, ok := r.m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

type memoryTenants struct{ m *Memory }

func (r *memoryTenants) Create(_ context.Context, tenant *domain.Tenant) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	clone := *tenant
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.m.tenants[clone.ID] = &clone
	tenant.ID = clone.ID
	tenant.CreatedAt = clone.CreatedAt
	return nil
}

func (r *memoryTenants) FindBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, t := range r.m.tenants {
		if t.Slug == slug {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrTenantNotFound
}

func (r *memoryTenants) ListForAccount(_ context.Context, accountID string) ([]domain.Tenant, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var out []domain.Tenant
	for _, mem := range r.m.memberships {
		if mem.AccountID != accountID {
			continue
		}
		if t, ok := r.m.tenants[mem.TenantID]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryTenants) Membership(_ context.Context, accountID, slug string) (*Membership, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var tenantID string
	for _, t := range r.m.tenants {
		if t.Slug == slug {
			tenantID = t.ID
			break
		}
	}
	if tenantID == "" {
		return nil, domain.ErrTenantNotFound
	}
	for _, mem := range r.m.memberships {
		if mem.AccountID == accountID && mem.TenantID == tenantID {
			clone := *mem
			return &clone, nil
		}
	}
	return nil, ErrNotMember
}

func (r *memoryTenants) AddMembership(_ context.Context, mem *Membership) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	clone := *mem
	if clone.JoinedAt.IsZero() {
		clone.JoinedAt = time.Now().UTC()
	}
	r.m.memberships = append(r.m.memberships, &clone)
	return nil
}

type memoryTokens struct{ m *Memory }

func (r *memoryTokens) Store(_ context.Context, token *RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	clone := *token
	r.m.tokens[clone.Hash] = &clone
	return nil
}

func (r *memoryTokens) Find(_ context.Context, hash string) (*RefreshToken, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.tokens[hash]
	if !ok {
		return nil, ErrTokenNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *memoryTokens) RevokeAll(_ context.Context, accountID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for hash, t := range r.m.tokens {
		if t.AccountID == accountID {
			delete(r.m.tokens, hash)
		}
	}
	return nil
}
