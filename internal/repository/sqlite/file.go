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

// FileDB implements repository.FileRepository. Obtain one via DB.Files().
//
// File records have no Update — a stored file is immutable. Replacing a file
// means deleting the record (which reclaims the blob) and uploading again.
type FileDB struct {
	conn *sql.DB
}

// compile-time check that *FileDB implements repository.FileRepository
var _ repository.FileRepository = (*FileDB)(nil)

func (db *FileDB) ListByOwner(ctx context.Context, ownerID string) ([]model.FileRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, path, category, created_at
		 FROM files
		 WHERE owner_id = ?
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing files: %w", err)
	}
	defer rows.Close()

	files := []model.FileRecord{}
	for rows.Next() {
		var f model.FileRecord
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Path, &f.Category, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating files: %w", err)
	}

	return files, nil
}

func (db *FileDB) GetByID(ctx context.Context, id, ownerID string) (*model.FileRecord, error) {
	var f model.FileRecord

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, path, category, created_at
		 FROM files
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&f.ID, &f.OwnerID, &f.Path, &f.Category, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("file", id)
		}
		return nil, fmt.Errorf("sqlite: getting file %s: %w", id, err)
	}

	return &f, nil
}

func (db *FileDB) Create(ctx context.Context, file *model.FileRecord) error {
	file.ID = xid.New().String()
	file.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO files (id, owner_id, path, category, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		file.ID,
		file.OwnerID,
		file.Path,
		file.Category,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating file record: %w", err)
	}

	return nil
}

// Delete removes the row matching (id, owner); zero affected rows is still
// success. Blob reclamation is the service layer's job, not ours.
func (db *FileDB) Delete(ctx context.Context, id, ownerID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM files WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting file %s: %w", id, err)
	}

	return nil
}
