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

// TaskStore implements repository.TaskRepository. Obtain one via Store.Tasks().
type TaskStore struct {
	pool *pgxpool.Pool
}

var _ repository.TaskRepository = (*TaskStore)(nil)

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, title, category, completed, created_at, updated_at
		 FROM tasks
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &t.Category, &t.Completed,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating tasks: %w", err)
	}

	return tasks, nil
}

func (s *TaskStore) GetByID(ctx context.Context, id, ownerID string) (*model.Task, error) {
	var t model.Task

	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, category, completed, created_at, updated_at
		 FROM tasks
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Category, &t.Completed,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("postgres: getting task %s: %w", id, err)
	}

	return &t, nil
}

func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, owner_id, title, category, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Category,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating task: %w", err)
	}

	return nil
}

// Update and Delete keep the silent-no-op contract on owner mismatch —
// RowsAffected is deliberately not checked.
func (s *TaskStore) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()

	_, err := s.pool.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, category = $2, completed = $3, updated_at = $4
		 WHERE id = $5 AND owner_id = $6`,
		task.Title,
		task.Category,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating task %s: %w", task.ID, err)
	}

	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id, ownerID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting task %s: %w", id, err)
	}

	return nil
}
