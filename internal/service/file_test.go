package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nadia/studydesk/internal/apperror"
)

func newTestFileService(t *testing.T) (*FileService, *mockFileRepo, *fakeBlobStore) {
	t.Helper()
	repo := newMockFileRepo()
	blobs := newFakeBlobStore()
	return NewFileService(repo, blobs, testLogger()), repo, blobs
}

func TestFileCreate_Success(t *testing.T) {
	svc, _, blobs := newTestFileService(t)

	file, err := svc.Create(context.Background(), "user-1", "lectures", strings.NewReader("pdf bytes"), "week1.pdf")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if file.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if file.Path == "" {
		t.Fatal("Create() did not record the blob key")
	}
	if !blobs.has(file.Path) {
		t.Errorf("blob %q missing from store", file.Path)
	}
}

func TestFileCreate_Validation(t *testing.T) {
	svc, _, _ := newTestFileService(t)
	ctx := context.Background()

	// No content at all.
	if _, err := svc.Create(ctx, "user-1", "lectures", nil, ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() without content error = %v, want ErrValidation", err)
	}

	// Content but no category.
	if _, err := svc.Create(ctx, "user-1", "", strings.NewReader("x"), "f.txt"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() without category error = %v, want ErrValidation", err)
	}
}

func TestFileCreate_ReclaimsBlobWhenInsertFails(t *testing.T) {
	svc, repo, blobs := newTestFileService(t)
	repo.failCreate = errors.New("db down")

	_, err := svc.Create(context.Background(), "user-1", "lectures", strings.NewReader("bytes"), "f.pdf")
	if err == nil {
		t.Fatal("Create() should have failed")
	}

	// The blob was written before the insert; the failed insert must not
	// leave it orphaned.
	blobs.waitRemoved(t)
	if blobs.count() != 0 {
		t.Errorf("blob store holds %d blobs after failed create, want 0", blobs.count())
	}
}

func TestFileDelete_ReclaimsBlob(t *testing.T) {
	svc, repo, blobs := newTestFileService(t)
	ctx := context.Background()

	file, err := svc.Create(ctx, "user-1", "lectures", strings.NewReader("bytes"), "f.pdf")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, file.ID, "user-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Row gone immediately; blob reclaimed in the background.
	if _, err := repo.GetByID(ctx, file.ID, "user-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Error("file record still present after Delete()")
	}
	if removed := blobs.waitRemoved(t); removed != file.Path {
		t.Errorf("reclaimed %q, want %q", removed, file.Path)
	}
}

func TestFileDelete_CrossTenant_SilentNoOp(t *testing.T) {
	svc, repo, blobs := newTestFileService(t)
	ctx := context.Background()

	file, _ := svc.Create(ctx, "alice", "lectures", strings.NewReader("bytes"), "f.pdf")

	// Bob deletes Alice's file: success reported, nothing happens.
	if err := svc.Delete(ctx, file.ID, "bob"); err != nil {
		t.Fatalf("Delete() error = %v, want nil (silent no-op)", err)
	}
	if _, err := repo.GetByID(ctx, file.ID, "alice"); err != nil {
		t.Error("cross-tenant delete removed the record")
	}
	if !blobs.has(file.Path) {
		t.Error("cross-tenant delete reclaimed the blob")
	}
}
