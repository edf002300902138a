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

// ResourceStore implements repository.ResourceRepository. Obtain one via
// Store.Resources().
type ResourceStore struct {
	pool *pgxpool.Pool
}

var _ repository.ResourceRepository = (*ResourceStore)(nil)

func (s *ResourceStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Resource, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, title, link, image, created_at, updated_at
		 FROM resources
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		r, err := scanResource(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning resource row: %w", err)
		}
		resources = append(resources, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating resources: %w", err)
	}

	return resources, nil
}

func (s *ResourceStore) GetByID(ctx context.Context, id, ownerID string) (*model.Resource, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, link, image, created_at, updated_at
		 FROM resources
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)

	r, err := scanResource(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("resource", id)
		}
		return nil, fmt.Errorf("postgres: getting resource %s: %w", id, err)
	}

	return r, nil
}

func (s *ResourceStore) Create(ctx context.Context, resource *model.Resource) error {
	resource.ID = xid.New().String()
	now := time.Now()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO resources (id, owner_id, title, link, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resource.ID,
		resource.OwnerID,
		resource.Title,
		resource.Link,
		resource.Image,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating resource: %w", err)
	}

	return nil
}

func (s *ResourceStore) Update(ctx context.Context, resource *model.Resource) error {
	resource.UpdatedAt = time.Now()

	_, err := s.pool.Exec(ctx,
		`UPDATE resources
		 SET title = $1, link = $2, image = $3, updated_at = $4
		 WHERE id = $5 AND owner_id = $6`,
		resource.Title,
		resource.Link,
		resource.Image,
		resource.UpdatedAt,
		resource.ID,
		resource.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating resource %s: %w", resource.ID, err)
	}

	return nil
}

func (s *ResourceStore) Delete(ctx context.Context, id, ownerID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM resources WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting resource %s: %w", id, err)
	}

	return nil
}

func scanResource(scan func(...any) error) (*model.Resource, error) {
	var (
		r     model.Resource
		image sql.NullString
	)
	if err := scan(
		&r.ID, &r.OwnerID, &r.Title, &r.Link, &image,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if image.Valid {
		r.Image = &image.String
	}
	return &r, nil
}
