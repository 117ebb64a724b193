package models

import "time"

// Session identifies the authenticated caller. It is established at login and
// handed to every core operation; the zero value is unauthenticated.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Authenticated reports whether the session carries a user that has not expired.
func (s Session) Authenticated(now time.Time) bool {
	if s.UserID == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}
