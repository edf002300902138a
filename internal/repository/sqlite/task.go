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

// TaskDB implements repository.TaskRepository. Obtain one via DB.Tasks().
type TaskDB struct {
	conn *sql.DB
}

// COMPILE-TIME INTERFACE CHECK:
// This line verifies AT COMPILE TIME that *TaskDB implements repository.TaskRepository.
//
// How it works:
//   - `var _ X = (*Y)(nil)` creates a nil pointer of type *Y
//   - It assigns it to a variable of type X (the interface)
//   - If *Y doesn't implement X, the compiler errors immediately
//   - The `_` means we don't actually use the variable — it's just a check
//
// This is a Go best practice for any interface implementation.
var _ repository.TaskRepository = (*TaskDB)(nil)

// ListByOwner returns all tasks belonging to ownerID, newest first.
//
// OWNER SCOPING IN SQL:
// The owner filter lives in the WHERE clause of every query in this file,
// not in the handlers. There is no code path that reads or writes a task
// row without an owner_id predicate, so cross-tenant access is impossible
// by construction rather than by discipline.
func (db *TaskDB) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, owner_id, title, category, completed, created_at, updated_at
		 FROM tasks
		 WHERE owner_id = ?
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	// CRITICAL: always close rows when done! sql.Rows holds a connection
	// from the pool; a forgotten Close leaks it permanently.
	defer rows.Close()

	// Start from an empty (not nil) slice so a user with no tasks gets
	// JSON `[]` rather than `null`.
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &t.Category, &t.Completed,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// GetByID retrieves a single task matching BOTH id and owner.
//
// A task owned by a different user is reported exactly like a task that
// does not exist. Returning NotFound (never Forbidden) means a caller
// probing foreign IDs cannot even learn that the ID is real.
func (db *TaskDB) GetByID(ctx context.Context, id, ownerID string) (*model.Task, error) {
	var t model.Task

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner_id, title, category, completed, created_at, updated_at
		 FROM tasks
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Category, &t.Completed,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel error — database/sql doesn't wrap it,
		// so == is the conventional check.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}

	return &t, nil
}

// Create inserts a new task. The generated xid and timestamps are written
// back through the pointer so the caller gets the canonical record.
func (db *TaskDB) Create(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, owner_id, title, category, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Category,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	return nil
}

// Update rewrites a task's mutable fields, scoped to (id, owner).
//
// SILENT NO-OP ON MISMATCH:
// We deliberately do NOT inspect RowsAffected here. If the id doesn't exist
// or belongs to another user, zero rows change and that is a success from
// the caller's point of view — tenant isolation must not be observable as
// an error. Single-resource GETs are where "not found" surfaces.
func (db *TaskDB) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, category = ?, completed = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		task.Title,
		task.Category,
		task.Completed,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}

	return nil
}

// Delete removes the task matching (id, owner). Same silent-no-op contract
// as Update.
func (db *TaskDB) Delete(ctx context.Context, id, ownerID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	return nil
}
