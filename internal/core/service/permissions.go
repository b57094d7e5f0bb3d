package service

import "github.com/paquexpress/client-go/internal/core/domain"

// ProfileSource yields the currently active profile, or nil when no tenant
// is selected. The tenant service implements it.
type ProfileSource interface {
	ActiveProfile() *domain.Profile
}

// Permissions evaluates role-based permissions against the active profile.
// Advisory only: it gates which affordances the shell exposes, it is never
// a substitute for server-side authorization.
type Permissions struct {
	profiles ProfileSource
}

func NewPermissions(profiles ProfileSource) *Permissions {
	return &Permissions{profiles: profiles}
}

// Can reports whether the active profile's role permits action. False when
// no profile is active.
func (p *Permissions) Can(action string) bool {
	profile := p.profiles.ActiveProfile()
	if profile == nil {
		return false
	}
	return domain.RolePermits(profile.Role, action)
}

// IsAdministrator reports whether the active profile holds the owner role.
func (p *Permissions) IsAdministrator() bool {
	profile := p.profiles.ActiveProfile()
	return profile != nil && profile.Role == domain.RoleOwner
}
