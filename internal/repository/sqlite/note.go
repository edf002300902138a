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

// NoteDB implements repository.NoteRepository. Obtain one via DB.Notes().
type NoteDB struct {
	conn *sql.DB
}

// compile-time check that *NoteDB implements repository.NoteRepository
var _ repository.NoteRepository = (*NoteDB)(nil)

func (db *NoteDB) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, content, created_at, updated_at
		 FROM notes
		 WHERE owner_id = ?
		 ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

func (db *NoteDB) GetByID(ctx context.Context, id, ownerID string) (*model.Note, error) {
	var n model.Note

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, content, created_at, updated_at
		 FROM notes
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&n.ID, &n.OwnerID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}

	return &n, nil
}

func (db *NoteDB) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, owner_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		note.ID,
		note.OwnerID,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

func (db *NoteDB) Update(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE notes
		 SET content = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		note.Content,
		note.UpdatedAt,
		note.ID,
		note.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	return nil
}

func (db *NoteDB) Delete(ctx context.Context, id, ownerID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	return nil
}
