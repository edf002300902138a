package sqlite

import (
	"context"
	"testing"

	"github.com/nadia/studydesk/internal/model"
)

// newTestDB creates an in-memory SQLite database with all migrations
// applied. Each test gets its own — ":memory:" databases are private to
// their connection, so tests can't interfere with each other.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user so that owner_id foreign keys have a target.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Name:         "Test " + username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$04$fakefakefakefakefakefake",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

// createTestTask inserts a task owned by ownerID.
func createTestTask(t *testing.T, db *DB, ownerID, title string) *model.Task {
	t.Helper()
	task := &model.Task{
		OwnerID:  ownerID,
		Title:    title,
		Category: "test",
	}
	if err := db.Tasks().Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
