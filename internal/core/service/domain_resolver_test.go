package service

import "testing"

func TestResolveDomain(t *testing.T) {
	const base = "paquexpress.com"

	cases := []struct {
		name string
		host string
		want DomainMatch
	}{
		{"tenant subdomain", "acme.paquexpress.com", DomainMatch{Kind: DomainTenant, Slug: "acme"}},
		{"tenant subdomain with port", "acme.paquexpress.com:8443", DomainMatch{Kind: DomainTenant, Slug: "acme"}},
		{"uppercase host", "ACME.Paquexpress.COM", DomainMatch{Kind: DomainTenant, Slug: "acme"}},
		{"trailing dot", "acme.paquexpress.com.", DomainMatch{Kind: DomainTenant, Slug: "acme"}},
		{"bare base domain", "paquexpress.com", DomainMatch{Kind: DomainAdmin}},
		{"app subdomain", "app.paquexpress.com", DomainMatch{Kind: DomainAdmin}},
		{"admin subdomain", "admin.paquexpress.com", DomainMatch{Kind: DomainAdmin}},
		{"api subdomain", "api.paquexpress.com", DomainMatch{Kind: DomainUnknown}},
		{"www subdomain", "www.paquexpress.com", DomainMatch{Kind: DomainUnknown}},
		{"localhost", "localhost", DomainMatch{Kind: DomainAdmin}},
		{"localhost with port", "localhost:3000", DomainMatch{Kind: DomainAdmin}},
		{"loopback", "127.0.0.1", DomainMatch{Kind: DomainAdmin}},
		{"tenant on localhost", "acme.localhost", DomainMatch{Kind: DomainTenant, Slug: "acme"}},
		{"admin on localhost", "admin.localhost", DomainMatch{Kind: DomainAdmin}},
		{"nested subdomain", "deep.acme.paquexpress.com", DomainMatch{Kind: DomainUnknown}},
		{"unrelated host", "evil.com", DomainMatch{Kind: DomainUnknown}},
		{"suffix lookalike", "notpaquexpress.com", DomainMatch{Kind: DomainUnknown}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveDomain(tc.host, base)
			if got != tc.want {
				t.Fatalf("ResolveDomain(%q) = %+v, want %+v", tc.host, got, tc.want)
			}
		})
	}
}

func TestResolveDomain_Deterministic(t *testing.T) {
	first := ResolveDomain("acme.paquexpress.com", "paquexpress.com")
	for i := 0; i < 10; i++ {
		if got := ResolveDomain("acme.paquexpress.com", "paquexpress.com"); got != first {
			t.Fatalf("resolution changed between calls: %+v vs %+v", first, got)
		}
	}
}
