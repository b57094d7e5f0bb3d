package domain

import "time"

// Tenant is an organizational account (empresa) scoping data and users.
// Slug is the stable URL-safe identifier used both for host-name matching
// ("{slug}.paquexpress.com") and for the persisted selection.
type Tenant struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Name      string            `json:"name"`
	Active    bool              `json:"active"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// reservedSlugs are host labels that never resolve to a tenant identity.
var reservedSlugs = map[string]struct{}{
	"app":   {},
	"admin": {},
	"api":   {},
	"www":   {},
}

// SlugReserved reports whether slug belongs to the reserved set.
func SlugReserved(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}
