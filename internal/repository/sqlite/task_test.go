package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/nadia/studydesk/internal/apperror"
)

// =========================================================================
// OWNER SCOPING TESTS
// =========================================================================
//
// These tests pin down the repository half of the isolation contract:
// every query filters by (id AND owner_id), and update/delete touch zero
// rows on a mismatch WITHOUT reporting an error.

func TestTaskListByOwner_ScopedAndNonNil(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	createTestTask(t, db, alice.ID, "alice 1")
	createTestTask(t, db, alice.ID, "alice 2")
	createTestTask(t, db, bob.ID, "bob 1")

	tasks, err := db.Tasks().ListByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("len(tasks) = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.OwnerID != alice.ID {
			t.Errorf("task %s has OwnerID %q, want %q", task.ID, task.OwnerID, alice.ID)
		}
	}

	// A user with no tasks gets an empty slice, never nil — it must
	// serialize as [] and not null.
	carol := createTestUser(t, db, "carol")
	empty, err := db.Tasks().ListByOwner(ctx, carol.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if empty == nil {
		t.Error("ListByOwner() returned nil slice, want empty")
	}
	if len(empty) != 0 {
		t.Errorf("len(empty) = %d, want 0", len(empty))
	}
}

func TestTaskGetByID_WrongOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	task := createTestTask(t, db, alice.ID, "alice's task")

	// The right owner sees it.
	if _, err := db.Tasks().GetByID(ctx, task.ID, alice.ID); err != nil {
		t.Fatalf("GetByID() as owner error = %v", err)
	}

	// Anyone else gets the same NotFound a bogus id would give.
	_, err := db.Tasks().GetByID(ctx, task.ID, bob.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() as non-owner error = %v, want ErrNotFound", err)
	}
}

func TestTaskUpdate_WrongOwnerTouchesNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	task := createTestTask(t, db, alice.ID, "original")

	hijack := *task
	hijack.OwnerID = bob.ID
	hijack.Title = "hijacked"

	// Zero rows match (id, owner_id) — and that is NOT an error.
	if err := db.Tasks().Update(ctx, &hijack); err != nil {
		t.Fatalf("Update() with wrong owner error = %v, want nil", err)
	}

	stored, _ := db.Tasks().GetByID(ctx, task.ID, alice.ID)
	if stored.Title != "original" {
		t.Errorf("Title = %q, cross-owner update modified the row", stored.Title)
	}
}

func TestTaskDelete_WrongOwnerTouchesNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	task := createTestTask(t, db, alice.ID, "survivor")

	if err := db.Tasks().Delete(ctx, task.ID, bob.ID); err != nil {
		t.Fatalf("Delete() with wrong owner error = %v, want nil", err)
	}

	if _, err := db.Tasks().GetByID(ctx, task.ID, alice.ID); err != nil {
		t.Error("cross-owner delete removed the row")
	}
}

// =========================================================================
// ROUND-TRIP TESTS
// =========================================================================

func TestTaskCompletedRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	task := createTestTask(t, db, alice.ID, "flip me")

	if task.Completed {
		t.Fatal("new task should start uncompleted")
	}

	task.Completed = true
	if err := db.Tasks().Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored, _ := db.Tasks().GetByID(ctx, task.ID, alice.ID)
	if !stored.Completed {
		t.Error("Completed = false after update, want true")
	}
}
