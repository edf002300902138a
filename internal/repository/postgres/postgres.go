// Package postgres implements the repository interfaces against PostgreSQL
// using the pgx connection pool.
//
// It mirrors repository/sqlite table-for-table and method-for-method — the
// differences are purely dialect: $n placeholders instead of ?, TIMESTAMPTZ
// instead of DATETIME, and typed unique-violation errors from pgconn instead
// of string matching. See the sqlite package for the commentary on the
// ownership and silent-no-op contracts; the same rules apply here.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// Store wraps a pgx pool and hands out per-entity repositories, exactly like
// sqlite.DB does.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres, verifies the connection, and runs migrations.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return s, nil
}

// Close releases the connection pool. Safe to call once at shutdown.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Users() *UserStore         { return &UserStore{pool: s.pool} }
func (s *Store) Tasks() *TaskStore         { return &TaskStore{pool: s.pool} }
func (s *Store) Files() *FileStore         { return &FileStore{pool: s.pool} }
func (s *Store) Resources() *ResourceStore { return &ResourceStore{pool: s.pool} }
func (s *Store) Notes() *NoteStore         { return &NoteStore{pool: s.pool} }
func (s *Store) Topics() *TopicStore       { return &TopicStore{pool: s.pool} }
func (s *Store) Sessions() *SessionStore   { return &SessionStore{pool: s.pool} }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			name            TEXT NOT NULL,
			email           TEXT NOT NULL UNIQUE,
			password_hash   TEXT NOT NULL,
			phone           TEXT NOT NULL DEFAULT '',
			socials         TEXT NOT NULL DEFAULT '',
			profile_picture TEXT,
			created_at      TIMESTAMPTZ NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			category   TEXT NOT NULL,
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id)`,
		`CREATE TABLE IF NOT EXISTS files (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			path       TEXT NOT NULL,
			category   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_owner_id ON files(owner_id)`,
		`CREATE TABLE IF NOT EXISTS resources (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			link       TEXT NOT NULL,
			image      TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_owner_id ON resources(owner_id)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_owner_id ON notes(owner_id)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id          TEXT PRIMARY KEY,
			subject     TEXT NOT NULL,
			subtopic    TEXT NOT NULL,
			explanation TEXT NOT NULL,
			link        TEXT,
			image       TEXT,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrating (%.40s...): %w", stmt, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// failure. pgx surfaces server errors as *pgconn.PgError with the SQLSTATE
// code, so this is a typed check — no string matching needed.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
