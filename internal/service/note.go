package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// NoteService handles free-form notes. The one rule: content must be
// non-empty, on create and on update alike.
type NoteService struct {
	repo   repository.NoteRepository
	logger *slog.Logger
}

func NewNoteService(repo repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

func (s *NoteService) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list notes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id, ownerID string) (*model.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "note ID is required")
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *NoteService) Create(ctx context.Context, ownerID, content string) (*model.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("content", "note content is required")
	}

	note := &model.Note{
		OwnerID: ownerID,
		Content: content,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Info("note created", slog.String("id", note.ID))
	return note, nil
}

// Update replaces the note's content. Unlike task titles, content is the
// note's only field, so an update must always supply it — an empty body is
// a validation error, not a "leave unchanged".
func (s *NoteService) Update(ctx context.Context, id, ownerID, content string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "note ID is required")
	}
	if strings.TrimSpace(content) == "" {
		return apperror.ValidationFailed("content", "note content is required")
	}

	note, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("note update no-op", slog.String("id", id))
			return nil
		}
		return err
	}

	note.Content = content

	if err := s.repo.Update(ctx, note); err != nil {
		s.logger.Error("failed to update note",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating note: %w", err)
	}

	s.logger.Info("note updated", slog.String("id", id))
	return nil
}

func (s *NoteService) Delete(ctx context.Context, id, ownerID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "note ID is required")
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		s.logger.Error("failed to delete note",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting note: %w", err)
	}

	s.logger.Info("note deleted", slog.String("id", id))
	return nil
}
