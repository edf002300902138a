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

// ResourceDB implements repository.ResourceRepository. Obtain one via DB.Resources().
type ResourceDB struct {
	conn *sql.DB
}

// compile-time check that *ResourceDB implements repository.ResourceRepository
var _ repository.ResourceRepository = (*ResourceDB)(nil)

func (db *ResourceDB) ListByOwner(ctx context.Context, ownerID string) ([]model.Resource, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, title, link, image, created_at, updated_at
		 FROM resources
		 WHERE owner_id = ?
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing resources: %w", err)
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		r, err := scanResource(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning resource row: %w", err)
		}
		resources = append(resources, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating resources: %w", err)
	}

	return resources, nil
}

func (db *ResourceDB) GetByID(ctx context.Context, id, ownerID string) (*model.Resource, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, title, link, image, created_at, updated_at
		 FROM resources
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)

	r, err := scanResource(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("resource", id)
		}
		return nil, fmt.Errorf("sqlite: getting resource %s: %w", id, err)
	}

	return r, nil
}

func (db *ResourceDB) Create(ctx context.Context, resource *model.Resource) error {
	resource.ID = xid.New().String()
	now := time.Now()
	resource.CreatedAt = now
	resource.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO resources (id, owner_id, title, link, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		resource.ID,
		resource.OwnerID,
		resource.Title,
		resource.Link,
		resource.Image,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating resource: %w", err)
	}

	return nil
}

// Update writes all mutable fields including image — field merging (keep the
// old image when no new one is uploaded) happens in the service, which has
// already fetched the row through the owner filter. Zero affected rows on an
// owner mismatch is success, same contract as tasks.
func (db *ResourceDB) Update(ctx context.Context, resource *model.Resource) error {
	resource.UpdatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE resources
		 SET title = ?, link = ?, image = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		resource.Title,
		resource.Link,
		resource.Image,
		resource.UpdatedAt,
		resource.ID,
		resource.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating resource %s: %w", resource.ID, err)
	}

	return nil
}

func (db *ResourceDB) Delete(ctx context.Context, id, ownerID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM resources WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting resource %s: %w", id, err)
	}

	return nil
}

// scanResource reads a resource row via the given Scan function, converting
// the nullable image column to *string. Shared by the one-row and many-row
// query paths.
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
