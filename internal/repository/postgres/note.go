package postgres

import (
	"context"
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

// NoteStore implements repository.NoteRepository. Obtain one via Store.Notes().
type NoteStore struct {
	pool *pgxpool.Pool
}

var _ repository.NoteRepository = (*NoteStore)(nil)

func (s *NoteStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, content, created_at, updated_at
		 FROM notes
		 WHERE owner_id = $1
		 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating notes: %w", err)
	}

	return notes, nil
}

func (s *NoteStore) GetByID(ctx context.Context, id, ownerID string) (*model.Note, error) {
	var n model.Note

	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, content, created_at, updated_at
		 FROM notes
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("postgres: getting note %s: %w", id, err)
	}

	return &n, nil
}

func (s *NoteStore) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notes (id, owner_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		note.ID,
		note.OwnerID,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating note: %w", err)
	}

	return nil
}

func (s *NoteStore) Update(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now()

	_, err := s.pool.Exec(ctx,
		`UPDATE notes
		 SET content = $1, updated_at = $2
		 WHERE id = $3 AND owner_id = $4`,
		note.Content,
		note.UpdatedAt,
		note.ID,
		note.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating note %s: %w", note.ID, err)
	}

	return nil
}

func (s *NoteStore) Delete(ctx context.Context, id, ownerID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting note %s: %w", id, err)
	}

	return nil
}
