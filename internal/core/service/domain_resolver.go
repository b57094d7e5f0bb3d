package service

import (
	"net"
	"strings"

	"github.com/paquexpress/client-go/internal/core/domain"
)

// DomainKind classifies what a host name identifies.
type DomainKind int

const (
	// DomainUnknown is a host bound to neither a tenant nor the
	// administrative surface.
	DomainUnknown DomainKind = iota
	// DomainTenant is a "{slug}.{base}" host carrying a tenant identity.
	DomainTenant
	// DomainAdmin is a cross-tenant administrative host.
	DomainAdmin
)

// DomainMatch is the result of resolving a host name. Slug is set only when
// Kind is DomainTenant.
type DomainMatch struct {
	Kind DomainKind
	Slug string
}

// adminLabels are reserved subdomain labels that identify the administrative
// surface rather than a tenant.
var adminLabels = map[string]struct{}{
	"app":   {},
	"admin": {},
}

// ResolveDomain classifies host against baseDomain. It matches the patterns
// "{slug}.{baseDomain}" and "{slug}.localhost"; a captured slug from the
// reserved set never resolves to a tenant identity. The administrative
// allow-list is a fixed constant set: the bare base domain, app/admin
// subdomains, localhost and the IPv4 loopback.
//
// Pure and deterministic: no network or storage access.
func ResolveDomain(host, baseDomain string) DomainMatch {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}
	hostname = strings.ToLower(strings.TrimSuffix(hostname, "."))
	baseDomain = strings.ToLower(baseDomain)

	if slug, ok := subdomainLabel(hostname, baseDomain); ok {
		if !domain.SlugReserved(slug) {
			return DomainMatch{Kind: DomainTenant, Slug: slug}
		}
		if _, admin := adminLabels[slug]; admin {
			return DomainMatch{Kind: DomainAdmin}
		}
		return DomainMatch{Kind: DomainUnknown}
	}
	if slug, ok := subdomainLabel(hostname, "localhost"); ok {
		if !domain.SlugReserved(slug) {
			return DomainMatch{Kind: DomainTenant, Slug: slug}
		}
		if _, admin := adminLabels[slug]; admin {
			return DomainMatch{Kind: DomainAdmin}
		}
		return DomainMatch{Kind: DomainUnknown}
	}

	switch hostname {
	case baseDomain, "localhost", "127.0.0.1":
		return DomainMatch{Kind: DomainAdmin}
	}
	return DomainMatch{Kind: DomainUnknown}
}

// subdomainLabel extracts the single label in front of base, e.g.
// ("acme.paquexpress.com", "paquexpress.com") → ("acme", true).
// Multi-label prefixes do not match.
func subdomainLabel(hostname, base string) (string, bool) {
	if base == "" || !strings.HasSuffix(hostname, "."+base) {
		return "", false
	}
	label := strings.TrimSuffix(hostname, "."+base)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}
