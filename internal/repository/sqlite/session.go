package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// SessionDB implements repository.SessionRepository. Obtain one via
// DB.Sessions(). Backs the "db" session store variant — sessions survive
// restarts without needing Redis.
type SessionDB struct {
	conn *sql.DB
}

// compile-time check that *SessionDB implements repository.SessionRepository
var _ repository.SessionRepository = (*SessionDB)(nil)

func (db *SessionDB) Create(ctx context.Context, session *model.Session) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		session.ID,
		session.UserID,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session: %w", err)
	}
	return nil
}

// Get returns the session only while it is unexpired — the expiry predicate
// is in SQL so an expired session is exactly as absent as a deleted one.
func (db *SessionDB) Get(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at
		 FROM sessions
		 WHERE id = ? AND expires_at > ?`,
		id, time.Now(),
	).Scan(&s.ID, &s.UserID, &s.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}

	return &s, nil
}

func (db *SessionDB) Delete(ctx context.Context, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

func (db *SessionDB) DeleteExpired(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}
	return nil
}
