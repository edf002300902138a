// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash IS `json:"-"`:
// The dash tells encoding/json to NEVER serialize this field. Handlers return
// the User struct directly (e.g. GET /api/user), and without the dash the
// bcrypt hash would leak to every client. A bcrypt hash is slow to crack but
// it is still secret material — it must never leave the server.
//
// WHY Phone AND Socials ARE PLAIN STRINGS (not *string)?
// Both are optional at registration. We use the empty string as the zero
// value rather than a nullable pointer — simpler to work with and safe to
// display. ProfilePicture is a *string instead because "no picture" and
// "picture at path X" are meaningfully different to the upload lifecycle:
// a nil pointer means there is no stored file to reclaim.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Phone          string    `json:"phone"`
	Socials        string    `json:"socials"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
