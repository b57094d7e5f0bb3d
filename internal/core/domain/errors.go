package domain

import "errors"

// Session errors. Authentication failures are global: they invalidate the whole
// session. Network errors are transient and must never clear session state.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoRefreshToken     = errors.New("no refresh token stored")
	ErrRefreshFailed      = errors.New("token refresh rejected")
	ErrNetwork            = errors.New("network error")
	ErrServer             = errors.New("server error")
)

// Tenant errors are local: they invalidate only the current resolution
// attempt, never the session.
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrNoActiveTenant = errors.New("no tenant selected")
)

var ErrUnknownRole = errors.New("unknown role")
