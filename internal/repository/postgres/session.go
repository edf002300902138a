package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// SessionStore implements repository.SessionRepository. Obtain one via
// Store.Sessions().
type SessionStore struct {
	pool *pgxpool.Pool
}

var _ repository.SessionRepository = (*SessionStore)(nil)

func (s *SessionStore) Create(ctx context.Context, session *model.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		session.ID,
		session.UserID,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	var sess model.Session

	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, expires_at
		 FROM sessions
		 WHERE id = $1 AND expires_at > NOW()`,
		id,
	).Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("postgres: getting session: %w", err)
	}

	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at <= $1`, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting expired sessions: %w", err)
	}
	return nil
}
