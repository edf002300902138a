package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// compile-time check that *DBStore implements Store
var _ Store = (*DBStore)(nil)

// DBStore keeps sessions in a table of the main SQL database, via whichever
// repository backend (SQLite or Postgres) is active. Sessions then survive
// server restarts without needing a Redis deployment.
type DBStore struct {
	repo repository.SessionRepository
}

func NewDBStore(repo repository.SessionRepository) *DBStore {
	return &DBStore{repo: repo}
}

func (s *DBStore) Create(ctx context.Context, userID string) (string, error) {
	sess := &model.Session{
		ID:        newID(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(TTL),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("session: persisting session: %w", err)
	}
	return sess.ID, nil
}

func (s *DBStore) Get(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("session: looking up session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return "", nil
	}
	return sess.UserID, nil
}

func (s *DBStore) Delete(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// StartSweeper periodically clears expired rows so the sessions table does
// not accumulate garbage. Failures are non-fatal — the rows are merely
// dead weight and the next sweep retries.
func (s *DBStore) StartSweeper(ctx context.Context, interval time.Duration, onErr func(error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.repo.DeleteExpired(ctx); err != nil && onErr != nil {
					onErr(err)
				}
			}
		}
	}()
}
