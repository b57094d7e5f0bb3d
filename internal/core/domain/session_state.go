package domain

// SessionState tracks the session lifecycle. Unauthenticated is both the
// initial state and the terminal state reached by logout or a failed renewal.
type SessionState string

const (
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionAuthenticating  SessionState = "authenticating"
	SessionAuthenticated   SessionState = "authenticated"
	SessionRenewing        SessionState = "renewing"
)
