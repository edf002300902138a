package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nadia/studydesk/internal/apperror"
)

func newTestTaskService(t *testing.T) (*TaskService, *mockTaskRepo) {
	t.Helper()
	repo := newMockTaskRepo()
	return NewTaskService(repo, testLogger()), repo
}

// =========================================================================
// CREATE / GET TESTS
// =========================================================================

func TestTaskCreate_Success(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(context.Background(), "user-1", "revise algebra", "study")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if task.OwnerID != "user-1" {
		t.Errorf("OwnerID = %q, want %q", task.OwnerID, "user-1")
	}
	if task.Completed {
		t.Error("new task should start uncompleted")
	}
}

func TestTaskCreate_Validation(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		category string
	}{
		{"missing title", "", "study"},
		{"missing category", "revise algebra", ""},
		{"whitespace title", "   ", "study"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestTaskService(t)
			_, err := svc.Create(context.Background(), "user-1", tt.title, tt.category)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestTaskGet_NotFound(t *testing.T) {
	svc, _ := newTestTaskService(t)

	_, err := svc.Get(context.Background(), "no-such-task", "user-1")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// OWNERSHIP ISOLATION TESTS
// =========================================================================

// Two users, one task each. Every cross-tenant access must behave exactly
// as if the other user's records did not exist.
func TestTaskOwnershipIsolation(t *testing.T) {
	svc, repo := newTestTaskService(t)
	ctx := context.Background()

	taskA, err := svc.Create(ctx, "alice", "alice's task", "work")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "bob", "bob's task", "home"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("list shows only own tasks", func(t *testing.T) {
		tasks, err := svc.List(ctx, "alice")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].Title != "alice's task" {
			t.Errorf("List(alice) = %v, want only alice's task", tasks)
		}
	})

	t.Run("get of another user's task is 404", func(t *testing.T) {
		_, err := svc.Get(ctx, taskA.ID, "bob")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update of another user's task is a silent no-op", func(t *testing.T) {
		// Bob "updates" Alice's task: plain success, nothing changes,
		// nothing leaks.
		if err := svc.Update(ctx, taskA.ID, "bob", "hijacked", "", nil); err != nil {
			t.Fatalf("Update() error = %v, want nil (silent no-op)", err)
		}

		stored, _ := repo.GetByID(ctx, taskA.ID, "alice")
		if stored.Title != "alice's task" {
			t.Errorf("Title = %q, cross-tenant update modified the row", stored.Title)
		}
	})

	t.Run("delete of another user's task is a silent no-op", func(t *testing.T) {
		if err := svc.Delete(ctx, taskA.ID, "bob"); err != nil {
			t.Fatalf("Delete() error = %v, want nil (silent no-op)", err)
		}
		if _, err := repo.GetByID(ctx, taskA.ID, "alice"); err != nil {
			t.Error("cross-tenant delete removed the row")
		}
	})
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestTaskUpdate_PartialFields(t *testing.T) {
	svc, repo := newTestTaskService(t)
	ctx := context.Background()

	task, _ := svc.Create(ctx, "user-1", "original title", "study")

	// Only flip completed; title and category stay.
	done := true
	if err := svc.Update(ctx, task.ID, "user-1", "", "", &done); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored, _ := repo.GetByID(ctx, task.ID, "user-1")
	if !stored.Completed {
		t.Error("Completed = false, want true")
	}
	if stored.Title != "original title" {
		t.Errorf("Title = %q, want unchanged", stored.Title)
	}
	if stored.Category != "study" {
		t.Errorf("Category = %q, want unchanged", stored.Category)
	}

	// Explicit false flips it back — nil would have left it alone.
	undone := false
	if err := svc.Update(ctx, task.ID, "user-1", "new title", "", &undone); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	stored, _ = repo.GetByID(ctx, task.ID, "user-1")
	if stored.Completed {
		t.Error("Completed = true, want false after explicit reset")
	}
	if stored.Title != "new title" {
		t.Errorf("Title = %q, want %q", stored.Title, "new title")
	}
}

func TestTaskUpdate_UnknownID_SilentNoOp(t *testing.T) {
	svc, _ := newTestTaskService(t)

	if err := svc.Update(context.Background(), "ghost", "user-1", "title", "", nil); err != nil {
		t.Errorf("Update() of unknown id error = %v, want nil", err)
	}
}

func TestTaskDelete_Success(t *testing.T) {
	svc, _ := newTestTaskService(t)
	ctx := context.Background()

	task, _ := svc.Create(ctx, "user-1", "to delete", "misc")

	if err := svc.Delete(ctx, task.ID, "user-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, task.ID, "user-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("task still present after Delete()")
	}
}
