package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nadia/studydesk/internal/apperror"
)

func newTestTopicService(t *testing.T) (*TopicService, *mockTopicRepo, *fakeBlobStore) {
	t.Helper()
	repo := newMockTopicRepo()
	blobs := newFakeBlobStore()
	return NewTopicService(repo, blobs, testLogger()), repo, blobs
}

func TestTopicCreate_Success(t *testing.T) {
	svc, _, _ := newTestTopicService(t)

	topic, err := svc.Create(context.Background(), "math", "calculus", "derivatives measure change", "", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if topic.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if topic.Link != nil {
		t.Error("Link should stay nil when not supplied")
	}
}

func TestTopicCreate_Validation(t *testing.T) {
	tests := []struct {
		name                           string
		subject, subtopic, explanation string
	}{
		{"missing subject", "", "calculus", "derivatives"},
		{"missing subtopic", "math", "", "derivatives"},
		{"missing explanation", "math", "calculus", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestTopicService(t)
			_, err := svc.Create(context.Background(), tt.subject, tt.subtopic, tt.explanation, "", nil, "")
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
		})
	}
}

// Topics are shared: a miss is a real 404, not a silent no-op. Compare the
// task/resource/note tests, where cross-tenant misses succeed silently.
func TestTopicUpdate_UnknownID_Returns404(t *testing.T) {
	svc, _, _ := newTestTopicService(t)

	err := svc.Update(context.Background(), "ghost", "math", "", "", "", nil, "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() of unknown topic error = %v, want ErrNotFound", err)
	}
}

func TestTopicDelete_UnknownID_Returns404(t *testing.T) {
	svc, _, _ := newTestTopicService(t)

	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() of unknown topic error = %v, want ErrNotFound", err)
	}
}

func TestTopicUpdate_NewImageSupersedesOld(t *testing.T) {
	svc, repo, blobs := newTestTopicService(t)
	ctx := context.Background()

	topic, err := svc.Create(ctx, "math", "calculus", "derivatives", "",
		strings.NewReader("old diagram"), "old.png")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldKey := *topic.Image

	if err := svc.Update(ctx, topic.ID, "", "", "", "", strings.NewReader("new diagram"), "new.png"); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored, _ := repo.GetByID(ctx, topic.ID)
	if stored.Image == nil || *stored.Image == oldKey {
		t.Fatal("row still points at the old image")
	}
	if removed := blobs.waitRemoved(t); removed != oldKey {
		t.Errorf("reclaimed %q, want old image %q", removed, oldKey)
	}
}

func TestTopicUpdate_PartialFields(t *testing.T) {
	svc, repo, _ := newTestTopicService(t)
	ctx := context.Background()

	topic, _ := svc.Create(ctx, "math", "calculus", "derivatives", "https://example.com", nil, "")

	if err := svc.Update(ctx, topic.ID, "", "limits", "", "", nil, ""); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored, _ := repo.GetByID(ctx, topic.ID)
	if stored.Subtopic != "limits" {
		t.Errorf("Subtopic = %q, want %q", stored.Subtopic, "limits")
	}
	if stored.Subject != "math" {
		t.Errorf("Subject = %q, want unchanged", stored.Subject)
	}
	if stored.Link == nil || *stored.Link != "https://example.com" {
		t.Error("Link should be unchanged")
	}
}

func TestTopicDelete_ReclaimsImage(t *testing.T) {
	svc, _, blobs := newTestTopicService(t)
	ctx := context.Background()

	topic, _ := svc.Create(ctx, "math", "calculus", "derivatives", "",
		strings.NewReader("diagram"), "d.png")
	imageKey := *topic.Image

	if err := svc.Delete(ctx, topic.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed := blobs.waitRemoved(t); removed != imageKey {
		t.Errorf("reclaimed %q, want %q", removed, imageKey)
	}
}
