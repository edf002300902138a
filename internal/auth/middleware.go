package auth

import (
	"context"
	"net/http"

	"github.com/nadia/studydesk/internal/session"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "userID", id), ANY package that knows the string "userID"
// can read or shadow your value. Using a package-private type prevents collisions:
// only THIS package can create a key of type contextKey, so only this package
// can read or write userID values in the context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireSession is a middleware that enforces authentication on protected routes.
//
// It reads the session ID from the HttpOnly session cookie, resolves it
// through the session registry, and stores the userID in the request
// context. If the cookie is missing or the session is absent/expired, it
// returns 401 Unauthorized and stops the request chain — no downstream
// handler runs without an authenticated owner ID.
//
// COOKIE-BASED SESSIONS:
// The cookie holds only an opaque ID; everything it maps to lives server
// side. HttpOnly means JavaScript cannot read the cookie, which prevents
// XSS (Cross-Site Scripting) attacks from stealing the session.
func RequireSession(sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolveSession(r, sessions)
			if err != nil || userID == "" {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			// Store userID in context so handlers can read it
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
//
// Returns ("", false) if the request carries no authenticated user.
// On routes behind RequireSession this always returns (id, true).
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// resolveSession reads the session cookie and looks it up in the registry.
func resolveSession(r *http.Request, sessions session.Store) (string, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		// http.ErrNoCookie — the request is simply unauthenticated
		return "", err
	}
	return sessions.Get(r.Context(), cookie.Value)
}
