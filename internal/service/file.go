package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/blob"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// FileService handles uploaded files: the blob (bytes in the blob store)
// and the FileRecord (row in the database) together.
type FileService struct {
	repo   repository.FileRepository
	blobs  blob.Store
	logger *slog.Logger
}

func NewFileService(repo repository.FileRepository, blobs blob.Store, logger *slog.Logger) *FileService {
	return &FileService{repo: repo, blobs: blobs, logger: logger}
}

func (s *FileService) List(ctx context.Context, ownerID string) ([]model.FileRecord, error) {
	files, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list files", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

func (s *FileService) Get(ctx context.Context, id, ownerID string) (*model.FileRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "file ID is required")
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// Create stores the uploaded bytes and records them. Blob first, row second
// — the row references the blob's key, so the key must exist before the
// insert. If the insert fails, the orphaned blob is reclaimed.
func (s *FileService) Create(ctx context.Context, ownerID, category string, content io.Reader, filename string) (*model.FileRecord, error) {
	category = strings.TrimSpace(category)

	if content == nil {
		return nil, apperror.ValidationFailed("file", "a file upload is required")
	}
	if category == "" {
		return nil, apperror.ValidationFailed("category", "file category is required")
	}

	key, err := s.blobs.Save(ctx, content, filename)
	if err != nil {
		s.logger.Error("failed to store upload",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	file := &model.FileRecord{
		OwnerID:  ownerID,
		Path:     key,
		Category: category,
	}

	if err := s.repo.Create(ctx, file); err != nil {
		reclaimBlob(s.blobs, s.logger, key)
		s.logger.Error("failed to create file record",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating file record: %w", err)
	}

	s.logger.Info("file uploaded",
		slog.String("id", file.ID),
		slog.String("path", key),
	)

	return file, nil
}

// Delete removes the row, then reclaims the blob fire-and-forget. The
// response only depends on the row delete: the blob may still exist for a
// moment (or forever, if reclamation keeps failing) — that is an accepted
// outcome, logged but invisible to the caller.
func (s *FileService) Delete(ctx context.Context, id, ownerID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "file ID is required")
	}

	// Fetch first: we need the blob key, and the owner filter on the fetch
	// gives us the silent no-op on mismatch.
	file, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("file delete no-op", slog.String("id", id))
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		s.logger.Error("failed to delete file record",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting file record: %w", err)
	}

	reclaimBlob(s.blobs, s.logger, file.Path)

	s.logger.Info("file deleted", slog.String("id", id))
	return nil
}
