package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// UserStore implements repository.UserRepository. Obtain one via Store.Users().
type UserStore struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user. Unlike the sqlite backend we skip the pre-check
// SELECTs entirely: the typed 23505 error tells us a constraint was hit, and
// the constraint name tells us which field to blame.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, name, email, password_hash, phone, socials, profile_picture, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
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
		return fmt.Errorf("postgres: inserting user %s: %w", user.Username, err)
	}

	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, `WHERE username = $1`, username)
}

func (s *UserStore) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u       model.User
		picture sql.NullString
	)

	err := s.pool.QueryRow(ctx,
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("postgres: getting user %v: %w", arg, err)
	}

	if picture.Valid {
		u.ProfilePicture = &picture.String
	}
	return &u, nil
}

func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	_, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET name = $1, email = $2, phone = $3, socials = $4, profile_picture = $5, password_hash = $6, updated_at = $7
		 WHERE id = $8`,
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
		return fmt.Errorf("postgres: updating user %s: %w", user.ID, err)
	}

	return nil
}
