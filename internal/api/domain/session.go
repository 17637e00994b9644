package domain

import "time"

// Session binds an issued bearer token to a user with an absolute expiry.
// The token also embeds its own expiry; the row is the server-side source of
// truth so logout can invalidate a token before it expires.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity is the resolved caller attached to authenticated requests.
type Identity struct {
	UserID   string
	Username string
	Role     string
}
