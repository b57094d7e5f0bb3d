package domain

import "time"

// User is the authenticated account, fetched once per session from the
// backend. It is an immutable snapshot: only a re-login or an explicit
// re-fetch replaces it.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
