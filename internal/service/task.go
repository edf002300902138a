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

// TaskService handles business logic for tasks.
//
// OWNERSHIP FLOWS THROUGH EVERY CALL:
// ownerID comes from the session middleware, never from the request body or
// URL. A caller can therefore only ever name records; WHOSE records is
// decided by who they are logged in as. The repository enforces the filter
// in SQL; this layer just makes sure the ownerID is always threaded through.
type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

// List returns the caller's tasks. A user with no tasks gets an empty
// slice, not an error.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task. Unlike Update/Delete, a miss here IS an error
// (404) — fetching is read-only, so there is no silent-no-op contract.
func (s *TaskService) Get(ctx context.Context, id, ownerID string) (*model.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "task ID is required")
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// Create validates and saves a new task. Title and category are required;
// a new task always starts uncompleted.
func (s *TaskService) Create(ctx context.Context, ownerID, title, category string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "task title is required")
	}
	if category == "" {
		return nil, apperror.ValidationFailed("category", "task category is required")
	}

	task := &model.Task{
		OwnerID:  ownerID,
		Title:    title,
		Category: category,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("id", task.ID),
		slog.String("ownerID", ownerID),
	)

	return task, nil
}

// Update applies a partial update to the caller's task.
//
// STRATEGY: "fetch then update". We load the row (through the owner filter)
// so unsupplied fields keep their stored values: empty title/category mean
// "leave unchanged", nil completed means "leave unchanged".
//
// If the fetch misses — the id doesn't exist OR belongs to another user —
// we return nil WITHOUT an error. The caller sees plain success and learns
// nothing, which is the point of the isolation contract.
func (s *TaskService) Update(ctx context.Context, id, ownerID, title, category string, completed *bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "task ID is required")
	}

	task, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("task update no-op", slog.String("id", id))
			return nil
		}
		return err
	}

	if title = strings.TrimSpace(title); title != "" {
		task.Title = title
	}
	if category = strings.TrimSpace(category); category != "" {
		task.Category = category
	}
	if completed != nil {
		task.Completed = *completed
	}

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating task: %w", err)
	}

	s.logger.Info("task updated", slog.String("id", id))
	return nil
}

// Delete removes the caller's task. Same silent-no-op contract as Update.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "task ID is required")
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		s.logger.Error("failed to delete task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.Info("task deleted", slog.String("id", id))
	return nil
}
