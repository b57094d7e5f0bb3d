package service

import (
	"context"

	"github.com/paquexpress/client-go/internal/core/domain"
	"github.com/paquexpress/client-go/internal/sandbox/repository"
)

// Tenants serves the empresa list and per-empresa profile lookups.
type Tenants struct {
	repo repository.TenantRepository
}

func NewTenants(repo repository.TenantRepository) *Tenants {
	return &Tenants{repo: repo}
}

// List returns the empresas the account belongs to, in creation order.
func (t *Tenants) List(ctx context.Context, accountID string) ([]domain.Tenant, error) {
	return t.repo.ListForAccount(ctx, accountID)
}

// Profile returns the account's role within the empresa identified by slug.
func (t *Tenants) Profile(ctx context.Context, accountID, slug string) (*repository.Membership, error) {
	return t.repo.Membership(ctx, accountID, slug)
}
