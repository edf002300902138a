package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/blob"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// TopicService handles the shared topic catalog.
//
// NO SILENT NO-OPS HERE:
// The owner-scoped services swallow not-found on update/delete because the
// miss might be another tenant's row and must stay invisible. Topics have
// no tenants — everyone sees every topic — so a missing topic is reported
// as a plain 404. Authentication is still required; the gate is just the
// session middleware, with no per-row check.
type TopicService struct {
	repo   repository.TopicRepository
	blobs  blob.Store
	logger *slog.Logger
}

func NewTopicService(repo repository.TopicRepository, blobs blob.Store, logger *slog.Logger) *TopicService {
	return &TopicService{repo: repo, blobs: blobs, logger: logger}
}

func (s *TopicService) List(ctx context.Context) ([]model.Topic, error) {
	topics, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list topics", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

func (s *TopicService) Get(ctx context.Context, id string) (*model.Topic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "topic ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates and saves a new catalog entry. Subject, subtopic, and
// explanation are required; link and image are optional.
func (s *TopicService) Create(ctx context.Context, subject, subtopic, explanation, link string, image io.Reader, imageName string) (*model.Topic, error) {
	subject = strings.TrimSpace(subject)
	subtopic = strings.TrimSpace(subtopic)
	explanation = strings.TrimSpace(explanation)

	if subject == "" {
		return nil, apperror.ValidationFailed("subject", "topic subject is required")
	}
	if subtopic == "" {
		return nil, apperror.ValidationFailed("subtopic", "topic subtopic is required")
	}
	if explanation == "" {
		return nil, apperror.ValidationFailed("explanation", "topic explanation is required")
	}

	topic := &model.Topic{
		Subject:     subject,
		Subtopic:    subtopic,
		Explanation: explanation,
	}
	if link = strings.TrimSpace(link); link != "" {
		topic.Link = &link
	}

	if image != nil {
		key, err := s.blobs.Save(ctx, image, imageName)
		if err != nil {
			return nil, fmt.Errorf("storing topic image: %w", err)
		}
		topic.Image = &key
	}

	if err := s.repo.Create(ctx, topic); err != nil {
		if topic.Image != nil {
			reclaimBlob(s.blobs, s.logger, *topic.Image)
		}
		s.logger.Error("failed to create topic", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating topic: %w", err)
	}

	s.logger.Info("topic created", slog.String("id", topic.ID))
	return topic, nil
}

// Update applies a partial update; a new image supersedes and reclaims the
// old one, exactly like resources.
func (s *TopicService) Update(ctx context.Context, id, subject, subtopic, explanation, link string, image io.Reader, imageName string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "topic ID is required")
	}

	topic, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err // 404 propagates — topics are shared, nothing to hide
	}

	if subject = strings.TrimSpace(subject); subject != "" {
		topic.Subject = subject
	}
	if subtopic = strings.TrimSpace(subtopic); subtopic != "" {
		topic.Subtopic = subtopic
	}
	if explanation = strings.TrimSpace(explanation); explanation != "" {
		topic.Explanation = explanation
	}
	if link = strings.TrimSpace(link); link != "" {
		topic.Link = &link
	}

	var oldImage string
	if image != nil {
		key, err := s.blobs.Save(ctx, image, imageName)
		if err != nil {
			return fmt.Errorf("storing topic image: %w", err)
		}
		if topic.Image != nil {
			oldImage = *topic.Image
		}
		topic.Image = &key
	}

	if err := s.repo.Update(ctx, topic); err != nil {
		if image != nil && topic.Image != nil {
			reclaimBlob(s.blobs, s.logger, *topic.Image)
		}
		s.logger.Error("failed to update topic",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	reclaimBlob(s.blobs, s.logger, oldImage)

	s.logger.Info("topic updated", slog.String("id", id))
	return nil
}

// Delete removes the topic and reclaims its image best-effort.
func (s *TopicService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "topic ID is required")
	}

	topic, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete topic",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	if topic.Image != nil {
		reclaimBlob(s.blobs, s.logger, *topic.Image)
	}

	s.logger.Info("topic deleted", slog.String("id", id))
	return nil
}
