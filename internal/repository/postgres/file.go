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

// FileStore implements repository.FileRepository. Obtain one via Store.Files().
type FileStore struct {
	pool *pgxpool.Pool
}

var _ repository.FileRepository = (*FileStore)(nil)

func (s *FileStore) ListByOwner(ctx context.Context, ownerID string) ([]model.FileRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, path, category, created_at
		 FROM files
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing files: %w", err)
	}
	defer rows.Close()

	files := []model.FileRecord{}
	for rows.Next() {
		var f model.FileRecord
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Path, &f.Category, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning file row: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating files: %w", err)
	}

	return files, nil
}

func (s *FileStore) GetByID(ctx context.Context, id, ownerID string) (*model.FileRecord, error) {
	var f model.FileRecord

	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, path, category, created_at
		 FROM files
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&f.ID, &f.OwnerID, &f.Path, &f.Category, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("file", id)
		}
		return nil, fmt.Errorf("postgres: getting file %s: %w", id, err)
	}

	return &f, nil
}

func (s *FileStore) Create(ctx context.Context, file *model.FileRecord) error {
	file.ID = xid.New().String()
	file.CreatedAt = time.Now()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO files (id, owner_id, path, category, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		file.ID,
		file.OwnerID,
		file.Path,
		file.Category,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating file record: %w", err)
	}

	return nil
}

func (s *FileStore) Delete(ctx context.Context, id, ownerID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM files WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting file %s: %w", id, err)
	}

	return nil
}
