package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// UserDB implements repository.UserRepository. Obtain one via DB.Users().
type UserDB struct {
	conn *sql.DB
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user.
//
// UNIQUENESS:
// username and email both carry UNIQUE constraints. We check for existing
// rows first so we can name the conflicting field in the error, but the
// constraint is the real guarantee — two concurrent registrations for the
// same username race past the SELECT, and exactly one of them then fails
// the INSERT. isUniqueViolation catches that loser and maps it to the same
// ErrConflict the pre-check would have produced.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	var taken int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, user.Username,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("sqlite: checking username %s: %w", user.Username, err)
	}
	if taken > 0 {
		return apperror.Conflict("username", "username is already taken")
	}

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("sqlite: checking email %s: %w", user.Email, err)
	}
	if taken > 0 {
		return apperror.Conflict("email", "email is already registered")
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, name, email, password_hash, phone, socials, profile_picture, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Socials,
		user.ProfilePicture,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username", "username or email is already taken")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by their unique username (used at login).
func (db *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `WHERE username = ?`, username)
}

func (db *UserDB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u       model.User
		picture sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, name, email, password_hash, phone, socials, profile_picture, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Socials,
		&picture,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	if picture.Valid {
		u.ProfilePicture = &picture.String
	}
	return &u, nil
}

// Update rewrites the mutable profile fields. Username is immutable; email
// keeps its UNIQUE constraint, so a change to an address someone else holds
// comes back as ErrConflict.
func (db *UserDB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET name = ?, email = ?, phone = ?, socials = ?, profile_picture = ?, password_hash = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.Email,
		user.Phone,
		user.Socials,
		user.ProfilePicture,
		user.PasswordHash,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email", "email is already registered")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	return nil
}
