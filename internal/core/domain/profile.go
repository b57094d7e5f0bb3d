package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold within a tenant. Unknown
// role strings are rejected at the decode boundary instead of silently
// defaulting.
type Role string

const (
	RoleOwner               Role = "owner"
	RoleOperatorOrigin      Role = "operator_origin"
	RoleOperatorDestination Role = "operator_destination"
	RoleSender              Role = "sender"
	RoleRecipient           Role = "recipient"
)

// ParseRole validates a role string coming off the wire.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleOperatorOrigin, RoleOperatorDestination, RoleSender, RoleRecipient:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Profile is the user's role assignment within one tenant. Exactly zero or
// one Profile is active at a time, and its TenantID always equals the active
// tenant's ID.
type Profile struct {
	Role     Role      `json:"role"`
	TenantID string    `json:"tenant_id"`
	JoinedAt time.Time `json:"joined_at"`
}
