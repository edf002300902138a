package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
)

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "sessionuser")

	sess := &model.Session{
		ID:        "sess-1",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.Sessions().Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := db.Sessions().Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}

	if err := db.Sessions().Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Sessions().Get(ctx, "sess-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("session still readable after Delete()")
	}
}

// The expiry predicate lives in the SQL — an expired row is exactly as
// absent as a deleted one.
func TestSessionGet_ExpiredIsNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "expired")

	sess := &model.Session{
		ID:        "sess-old",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := db.Sessions().Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := db.Sessions().Get(ctx, "sess-old")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() of expired session error = %v, want ErrNotFound", err)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "sweeper")

	stale := &model.Session{ID: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	fresh := &model.Session{ID: "fresh", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []*model.Session{stale, fresh} {
		if err := db.Sessions().Create(ctx, s); err != nil {
			t.Fatalf("Create(%s) error = %v", s.ID, err)
		}
	}

	if err := db.Sessions().DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}

	// The stale row is physically gone (not just filtered by Get).
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatalf("counting sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("sessions remaining = %d, want 1", count)
	}

	if _, err := db.Sessions().Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh session should survive the sweep: %v", err)
	}
}
