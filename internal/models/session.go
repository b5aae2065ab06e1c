package models

import "time"

// Session represents a stored bearer-token session.
// Only the SHA-256 hash of the token is persisted.
type Session struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	IPAddress *string   `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent *string   `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ClientMeta describes the client that opened a session.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// IssuedSession is returned to the client once; Token is the raw bearer token.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
	Session   *Session
}
