package models

import "time"

// Session is a persisted bearer session. Only the SHA-256 digest of the
// token is stored; the token itself is handed to the client once.
type Session struct {
	TokenHash string    `json:"tokenHash"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ClientMeta describes the transport peer a session is issued to.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}
