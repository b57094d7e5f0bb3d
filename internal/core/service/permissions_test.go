package service

import (
	"context"
	"testing"

	"github.com/paquexpress/client-go/internal/core/domain"
)

type fixedProfile struct {
	profile *domain.Profile
}

func (f fixedProfile) ActiveProfile() *domain.Profile { return f.profile }

func TestPermissions_NoActiveProfile(t *testing.T) {
	perms := NewPermissions(fixedProfile{})
	if perms.Can(domain.ActionViewShipments) {
		t.Fatalf("no active profile should permit nothing")
	}
	if perms.IsAdministrator() {
		t.Fatalf("no active profile should not be administrator")
	}
}

func TestPermissions_Can(t *testing.T) {
	perms := NewPermissions(fixedProfile{profile: &domain.Profile{Role: domain.RoleSender}})
	if !perms.Can(domain.ActionCreateShipment) {
		t.Fatalf("sender should create shipments")
	}
	if perms.Can(domain.ActionManageUsers) {
		t.Fatalf("sender should not manage users")
	}
}

func TestPermissions_IsAdministrator(t *testing.T) {
	owner := NewPermissions(fixedProfile{profile: &domain.Profile{Role: domain.RoleOwner}})
	if !owner.IsAdministrator() {
		t.Fatalf("owner is the administrator role")
	}
	sender := NewPermissions(fixedProfile{profile: &domain.Profile{Role: domain.RoleSender}})
	if sender.IsAdministrator() {
		t.Fatalf("sender is not an administrator")
	}
}

func TestPermissions_FollowsActiveTenant(t *testing.T) {
	store := newStubStore()
	backend := scriptedBackend()
	tenants := NewTenants(store, backend, testBase, testLogger())
	perms := NewPermissions(tenants)

	if _, err := tenants.Resolve(context.Background(), "acme.paquexpress.com"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !perms.Can(domain.ActionManageUsers) {
		t.Fatalf("owner on acme should manage users")
	}

	if err := tenants.Switch(context.Background(), "norte-express", nil); err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if perms.Can(domain.ActionManageUsers) {
		t.Fatalf("permissions must follow the active tenant's role")
	}
	if !perms.Can(domain.ActionTrackShipment) {
		t.Fatalf("sender on norte-express should track shipments")
	}
}
