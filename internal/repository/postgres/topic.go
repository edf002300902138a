package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// TopicStore implements repository.TopicRepository. Obtain one via
// Store.Topics(). No owner column — see the sqlite TopicDB commentary.
type TopicStore struct {
	pool *pgxpool.Pool
}

var _ repository.TopicRepository = (*TopicStore)(nil)

func (s *TopicStore) List(ctx context.Context) ([]model.Topic, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, subject, subtopic, explanation, link, image, created_at, updated_at
		 FROM topics
		 ORDER BY subject, subtopic`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning topic row: %w", err)
		}
		topics = append(topics, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating topics: %w", err)
	}

	return topics, nil
}

func (s *TopicStore) GetByID(ctx context.Context, id string) (*model.Topic, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, subject, subtopic, explanation, link, image, created_at, updated_at
		 FROM topics
		 WHERE id = $1`,
		id,
	)

	t, err := scanTopic(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("topic", id)
		}
		return nil, fmt.Errorf("postgres: getting topic %s: %w", id, err)
	}

	return t, nil
}

func (s *TopicStore) Create(ctx context.Context, topic *model.Topic) error {
	topic.ID = xid.New().String()
	now := time.Now()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO topics (id, subject, subtopic, explanation, link, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		topic.ID,
		topic.Subject,
		topic.Subtopic,
		topic.Explanation,
		topic.Link,
		topic.Image,
		topic.CreatedAt,
		topic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: creating topic: %w", err)
	}

	return nil
}

func (s *TopicStore) Update(ctx context.Context, topic *model.Topic) error {
	topic.UpdatedAt = time.Now()

	tag, err := s.pool.Exec(ctx,
		`UPDATE topics
		 SET subject = $1, subtopic = $2, explanation = $3, link = $4, image = $5, updated_at = $6
		 WHERE id = $7`,
		topic.Subject,
		topic.Subtopic,
		topic.Explanation,
		topic.Link,
		topic.Image,
		topic.UpdatedAt,
		topic.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating topic %s: %w", topic.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("topic", topic.ID)
	}

	return nil
}

func (s *TopicStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM topics WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting topic %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("topic", id)
	}

	return nil
}

func scanTopic(scan func(...any) error) (*model.Topic, error) {
	var (
		t           model.Topic
		link, image sql.NullString
	)
	if err := scan(
		&t.ID, &t.Subject, &t.Subtopic, &t.Explanation, &link, &image,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if link.Valid {
		t.Link = &link.String
	}
	if image.Valid {
		t.Image = &image.String
	}
	return &t, nil
}
