package model

import "time"

// Session maps an opaque session ID (held by the browser in an HttpOnly
// cookie) to an authenticated user. Expiry is fixed at issuance — there is
// no sliding refresh, so a session is valid for exactly its TTL from login.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at time now.
// Taking `now` as a parameter (instead of calling time.Now() inside) makes
// the check trivially testable.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
