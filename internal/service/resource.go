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

// ResourceService handles bookmarked resources and their optional preview
// images.
type ResourceService struct {
	repo   repository.ResourceRepository
	blobs  blob.Store
	logger *slog.Logger
}

func NewResourceService(repo repository.ResourceRepository, blobs blob.Store, logger *slog.Logger) *ResourceService {
	return &ResourceService{repo: repo, blobs: blobs, logger: logger}
}

func (s *ResourceService) List(ctx context.Context, ownerID string) ([]model.Resource, error) {
	resources, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list resources", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	return resources, nil
}

func (s *ResourceService) Get(ctx context.Context, id, ownerID string) (*model.Resource, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "resource ID is required")
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// Create saves a new resource. Title and link are mandatory; the image is
// optional and stays null when none is uploaded.
func (s *ResourceService) Create(ctx context.Context, ownerID, title, link string, image io.Reader, imageName string) (*model.Resource, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "resource title is required")
	}
	if link == "" {
		return nil, apperror.ValidationFailed("link", "resource link is required")
	}

	resource := &model.Resource{
		OwnerID: ownerID,
		Title:   title,
		Link:    link,
	}

	if image != nil {
		key, err := s.blobs.Save(ctx, image, imageName)
		if err != nil {
			return nil, fmt.Errorf("storing resource image: %w", err)
		}
		resource.Image = &key
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		if resource.Image != nil {
			reclaimBlob(s.blobs, s.logger, *resource.Image)
		}
		s.logger.Error("failed to create resource",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	s.logger.Info("resource created", slog.String("id", resource.ID))
	return resource, nil
}

// Update applies a partial update. The image handling is the interesting
// part:
//   - no new image uploaded → the stored image path is preserved untouched
//   - new image uploaded    → it replaces the old one, and the old blob is
//     reclaimed fire-and-forget once the row points at the new key
//
// Owner mismatch and unknown id are silent no-ops, as with tasks.
func (s *ResourceService) Update(ctx context.Context, id, ownerID, title, link string, image io.Reader, imageName string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "resource ID is required")
	}

	resource, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("resource update no-op", slog.String("id", id))
			return nil
		}
		return err
	}

	if title = strings.TrimSpace(title); title != "" {
		resource.Title = title
	}
	if link = strings.TrimSpace(link); link != "" {
		resource.Link = link
	}

	var oldImage string
	if image != nil {
		key, err := s.blobs.Save(ctx, image, imageName)
		if err != nil {
			return fmt.Errorf("storing resource image: %w", err)
		}
		if resource.Image != nil {
			oldImage = *resource.Image
		}
		resource.Image = &key
	}

	if err := s.repo.Update(ctx, resource); err != nil {
		if image != nil && resource.Image != nil {
			// New image never made it into the row.
			reclaimBlob(s.blobs, s.logger, *resource.Image)
		}
		s.logger.Error("failed to update resource",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating resource: %w", err)
	}

	reclaimBlob(s.blobs, s.logger, oldImage)

	s.logger.Info("resource updated", slog.String("id", id))
	return nil
}

// Delete removes the row and reclaims the image (if any) fire-and-forget.
func (s *ResourceService) Delete(ctx context.Context, id, ownerID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "resource ID is required")
	}

	resource, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("resource delete no-op", slog.String("id", id))
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		s.logger.Error("failed to delete resource",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting resource: %w", err)
	}

	if resource.Image != nil {
		reclaimBlob(s.blobs, s.logger, *resource.Image)
	}

	s.logger.Info("resource deleted", slog.String("id", id))
	return nil
}
