package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
	"github.com/nadia/studydesk/internal/repository"
)

// TopicDB implements repository.TopicRepository. Obtain one via DB.Topics().
//
// NO OWNER COLUMN:
// The topic catalog is shared. Queries here take no ownerID and filter on
// nothing but the topic's own id — the only gate is the session middleware
// in front of the handlers. Update and Delete DO report not-found via
// RowsAffected, unlike the owner-scoped repositories: with no tenant
// isolation to hide, a missing topic is simply missing.
type TopicDB struct {
	conn *sql.DB
}

// compile-time check that *TopicDB implements repository.TopicRepository
var _ repository.TopicRepository = (*TopicDB)(nil)

func (db *TopicDB) List(ctx context.Context) ([]model.Topic, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, subject, subtopic, explanation, link, image, created_at, updated_at
		 FROM topics
		 ORDER BY subject, subtopic`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning topic row: %w", err)
		}
		topics = append(topics, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating topics: %w", err)
	}

	return topics, nil
}

func (db *TopicDB) GetByID(ctx context.Context, id string) (*model.Topic, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, subject, subtopic, explanation, link, image, created_at, updated_at
		 FROM topics
		 WHERE id = ?`,
		id,
	)

	t, err := scanTopic(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("topic", id)
		}
		return nil, fmt.Errorf("sqlite: getting topic %s: %w", id, err)
	}

	return t, nil
}

func (db *TopicDB) Create(ctx context.Context, topic *model.Topic) error {
	topic.ID = xid.New().String()
	now := time.Now()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO topics (id, subject, subtopic, explanation, link, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
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
		return fmt.Errorf("sqlite: creating topic: %w", err)
	}

	return nil
}

func (db *TopicDB) Update(ctx context.Context, topic *model.Topic) error {
	topic.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE topics
		 SET subject = ?, subtopic = ?, explanation = ?, link = ?, image = ?, updated_at = ?
		 WHERE id = ?`,
		topic.Subject,
		topic.Subtopic,
		topic.Explanation,
		topic.Link,
		topic.Image,
		topic.UpdatedAt,
		topic.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating topic %s: %w", topic.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("topic", topic.ID)
	}

	return nil
}

func (db *TopicDB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM topics WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting topic %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
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
