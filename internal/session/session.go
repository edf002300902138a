// Package session implements the session registry: opaque session IDs mapped
// to authenticated user IDs, with a fixed expiry.
//
// WHY SERVER-SIDE SESSIONS (not JWTs)?
// Logout must actually destroy the session. A stateless token stays valid
// until it expires no matter what the server does; a registry entry can be
// deleted the moment the user logs out. The cost is a lookup per request,
// which every backing store here handles trivially.
//
// The Store interface is deliberately tiny so the backing store is
// swappable: an in-memory map for dev and tests, Redis for multi-instance
// deployments, or a table in the main SQL database.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// TTL is fixed at issuance — no sliding refresh. A session created at
	// login is valid for exactly 24 hours, then the user logs in again.
	TTL = 24 * time.Hour

	// CookieName is the cookie carrying the session ID.
	CookieName = "session_id"
)

// Store is the session registry contract.
type Store interface {
	// Create registers a new session for userID and returns its ID.
	Create(ctx context.Context, userID string) (string, error)
	// Get resolves a session ID to a user ID. Returns ("", nil) when the
	// session is absent or expired — that is a normal outcome, not an error.
	Get(ctx context.Context, sessionID string) (string, error)
	// Delete destroys a session. Deleting an absent session is a no-op.
	Delete(ctx context.Context, sessionID string) error
}

// newID generates an unguessable session identifier.
// UUIDv4 gives 122 bits of randomness from crypto/rand — more than enough
// that session IDs cannot be predicted or brute-forced.
func newID() string {
	return uuid.New().String()
}
