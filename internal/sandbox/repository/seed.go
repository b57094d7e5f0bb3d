package repository

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/paquexpress/client-go/internal/core/domain"
)

type seedAccount struct {
	email    string
	name     string
	phone    string
	password string
}

type seedTenant struct {
	slug string
	name string
}

type seedMembership struct {
	email string
	slug  string
	role  domain.Role
}

var seedAccounts = []seedAccount{
	{email: "dueno@acme.mx", name: "Mariana Duarte", phone: "+52 55 1234 0001", password: "acme-owner"},
	{email: "origen@acme.mx", name: "Jorge Pineda", phone: "+52 55 1234 0002", password: "acme-origen"},
	{email: "destino@acme.mx", name: "Lucía Peralta", phone: "+52 55 1234 0003", password: "acme-destino"},
	{email: "remitente@acme.mx", name: "Raúl Soto", phone: "+52 55 1234 0004", password: "acme-remitente"},
	{email: "cliente@correo.mx", name: "Ana Torres", phone: "+52 55 1234 0005", password: "cliente-demo"},
}

var seedTenants = []seedTenant{
	{slug: "acme", name: "Acme Paquetería"},
	{slug: "norte-express", name: "Norte Express"},
}

var seedMemberships = []seedMembership{
	{email: "dueno@acme.mx", slug: "acme", role: domain.RoleOwner},
	{email: "origen@acme.mx", slug: "acme", role: domain.RoleOperatorOrigin},
	{email: "destino@acme.mx", slug: "acme", role: domain.RoleOperatorDestination},
	{email: "remitente@acme.mx", slug: "acme", role: domain.RoleSender},
	{email: "cliente@correo.mx", slug: "acme", role: domain.RoleRecipient},
	{email: "dueno@acme.mx", slug: "norte-express", role: domain.RoleSender},
}

// Seed loads the fixture accounts, empresas and memberships. Existing
// records are left untouched so restarts against Mongo stay idempotent.
func Seed(ctx context.Context, accounts AccountRepository, tenants TenantRepository) error {
	now := time.Now().UTC()

	accountIDs := make(map[string]string, len(seedAccounts))
	for _, sa := range seedAccounts {
		if existing, err := accounts.FindByEmail(ctx, sa.email); err == nil {
			accountIDs[sa.email] = existing.ID
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(sa.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		created, err := accounts.Create(ctx, &Account{
			Email:        sa.email,
			DisplayName:  sa.name,
			Phone:        sa.phone,
			PasswordHash: string(hash),
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}
		accountIDs[sa.email] = created.ID
	}

	tenantIDs := make(map[string]string, len(seedTenants))
	for i, st := range seedTenants {
		if existing, err := tenants.FindBySlug(ctx, st.slug); err == nil {
			tenantIDs[st.slug] = existing.ID
			continue
		}
		tenant := domain.Tenant{
			ID:        "emp-" + st.slug,
			Slug:      st.slug,
			Name:      st.name,
			Active:    true,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := tenants.Create(ctx, &tenant); err != nil {
			return err
		}
		tenantIDs[st.slug] = tenant.ID
	}

	for _, sm := range seedMemberships {
		accountID, ok := accountIDs[sm.email]
		if !ok {
			continue
		}
		if _, err := tenants.Membership(ctx, accountID, sm.slug); err == nil {
			continue
		}
		err := tenants.AddMembership(ctx, &Membership{
			AccountID: accountID,
			TenantID:  tenantIDs[sm.slug],
			Role:      sm.role,
			JoinedAt:  now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
