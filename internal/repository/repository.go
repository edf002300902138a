// Package repository declares the storage interfaces the rest of the app
// programs against.
//
// WHY INTERFACES HERE AND IMPLEMENTATIONS IN SUBPACKAGES?
// The service layer depends on these interfaces, never on a concrete
// database. The composition root (main.go) decides whether rows live in an
// embedded SQLite file or a Postgres server — the two subpackages implement
// exactly the same contracts, so swapping backends is a config change, not
// a code change. This collapses what would otherwise be near-duplicate
// server variants into one core with pluggable storage.
//
// OWNERSHIP CONTRACT (applies to Task/File/Resource/Note repositories):
//   - List only ever returns rows belonging to ownerID.
//   - GetByID resolves (id, ownerID) together; a row owned by someone else
//     is indistinguishable from a row that does not exist (ErrNotFound).
//   - Update/Delete filter by (id, ownerID) in the WHERE clause and treat
//     zero affected rows as success. Tenant isolation, not discoverability:
//     a caller probing another user's IDs learns nothing.
//
// TopicRepository deliberately has no owner parameter — the topic catalog
// is shared between all authenticated users.
package repository

import (
	"context"

	"github.com/nadia/studydesk/internal/model"
)

type UserRepository interface {
	// Create persists a new user. Returns apperror.ErrConflict if the
	// username or email is already taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Update rewrites the mutable profile fields of an existing user.
	Update(ctx context.Context, user *model.User) error
}

type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	GetByID(ctx context.Context, id, ownerID string) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id, ownerID string) error
}

type FileRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.FileRecord, error)
	GetByID(ctx context.Context, id, ownerID string) (*model.FileRecord, error)
	Create(ctx context.Context, file *model.FileRecord) error
	Delete(ctx context.Context, id, ownerID string) error
}

type ResourceRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Resource, error)
	GetByID(ctx context.Context, id, ownerID string) (*model.Resource, error)
	Create(ctx context.Context, resource *model.Resource) error
	Update(ctx context.Context, resource *model.Resource) error
	Delete(ctx context.Context, id, ownerID string) error
}

type NoteRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)
	GetByID(ctx context.Context, id, ownerID string) (*model.Note, error)
	Create(ctx context.Context, note *model.Note) error
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id, ownerID string) error
}

type TopicRepository interface {
	List(ctx context.Context) ([]model.Topic, error)
	GetByID(ctx context.Context, id string) (*model.Topic, error)
	Create(ctx context.Context, topic *model.Topic) error
	Update(ctx context.Context, topic *model.Topic) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository backs the database-backed session store variant.
// Get must not return expired sessions — implementations either filter by
// expiry in SQL or check after scanning.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) error
}
