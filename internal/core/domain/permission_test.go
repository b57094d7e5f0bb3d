package domain

import "testing"

func TestRolePermits_OwnerWildcard(t *testing.T) {
	actions := []string{
		ActionCreateShipment,
		ActionChangeStatus,
		ActionManageUsers,
		ActionViewReports,
		"accion_futura",
	}
	for _, action := range actions {
		if !RolePermits(RoleOwner, action) {
			t.Fatalf("owner should permit %q", action)
		}
	}
}

func TestRolePermits_OperatorAsymmetry(t *testing.T) {
	if !RolePermits(RoleOperatorOrigin, ActionCreateShipment) {
		t.Fatalf("origin operator should create shipments")
	}
	if RolePermits(RoleOperatorOrigin, ActionChangeStatus) {
		t.Fatalf("origin operator should not change status")
	}
	if !RolePermits(RoleOperatorDestination, ActionChangeStatus) {
		t.Fatalf("destination operator should change status")
	}
	if RolePermits(RoleOperatorDestination, ActionCreateShipment) {
		t.Fatalf("destination operator should not create shipments")
	}
}

func TestRolePermits_RecipientReadOnly(t *testing.T) {
	if !RolePermits(RoleRecipient, ActionTrackShipment) {
		t.Fatalf("recipient should track shipments")
	}
	if RolePermits(RoleRecipient, ActionCreateShipment) {
		t.Fatalf("recipient should not create shipments")
	}
	if RolePermits(RoleRecipient, ActionConfirmDelivery) {
		t.Fatalf("recipient should not confirm delivery")
	}
}

func TestRolePermits_UnknownRole(t *testing.T) {
	if RolePermits(Role("intruso"), ActionViewShipments) {
		t.Fatalf("unknown role should permit nothing")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"owner", "operator_origin", "operator_destination", "sender", "recipient"} {
		if _, err := ParseRole(valid); err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", valid, err)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestSlugReserved(t *testing.T) {
	for _, slug := range []string{"app", "admin", "api", "www"} {
		if !SlugReserved(slug) {
			t.Fatalf("%q should be reserved", slug)
		}
	}
	if SlugReserved("acme") {
		t.Fatalf("ordinary slug should not be reserved")
	}
}
