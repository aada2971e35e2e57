package models

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Session is the authenticated state persisted between CLI runs.
type Session struct {
	UserID    string
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
