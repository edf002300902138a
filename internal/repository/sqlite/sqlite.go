// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - Single-server deployments (which is most apps, honestly)
// - Development and testing (use ":memory:" for an in-memory DB)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
//
// The sibling package repository/postgres implements the same interfaces
// against a client-server database; the rest of the app cannot tell which
// one it is talking to.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// BLANK IMPORT:
	// The underscore import `_ "modernc.org/sqlite"` is a "side-effect only" import.
	// The sqlite package's init() function registers itself with database/sql
	// as a driver named "sqlite". After this import, sql.Open("sqlite", ...)
	// knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out per-entity repositories.
//
// WHY PER-ENTITY SUB-REPOS (UserDB, TaskDB, ...)?
// The repository interfaces all declare methods named ListByOwner, GetByID,
// Create, ... with different model types. A single struct cannot implement
// two interfaces whose same-named methods differ in signature, so each
// entity gets its own small struct sharing the one connection pool. The
// accessors below are cheap — they allocate nothing but a wrapper.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Tasks returns the task repository backed by this database.
func (db *DB) Tasks() *TaskDB { return &TaskDB{conn: db.conn} }

// Files returns the file-record repository backed by this database.
func (db *DB) Files() *FileDB { return &FileDB{conn: db.conn} }

// Resources returns the resource repository backed by this database.
func (db *DB) Resources() *ResourceDB { return &ResourceDB{conn: db.conn} }

// Notes returns the note repository backed by this database.
func (db *DB) Notes() *NoteDB { return &NoteDB{conn: db.conn} }

// Topics returns the topic repository backed by this database.
func (db *DB) Topics() *TopicDB { return &TopicDB{conn: db.conn} }

// Sessions returns the session repository backed by this database.
func (db *DB) Sessions() *SessionDB { return &SessionDB{conn: db.conn} }

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/studydesk.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping verifies the connection actually works.
	// Without this, a bad path or permissions issue would only surface
	// on the first query — which is much harder to debug.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the entire database during writes.
	// WAL mode allows concurrent reads WHILE a write is happening.
	// This is critical for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (for backwards compatibility).
	// We turn them on for referential integrity (every record → users.id).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS is idempotent —
// safe to run on every start against an existing database file.
func (db *DB) migrate() error {
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
			created_at      DATETIME NOT NULL,
			updated_at      DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			category   TEXT NOT NULL,
			completed  INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id)`,
		`CREATE TABLE IF NOT EXISTS files (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			path       TEXT NOT NULL,
			category   TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_owner_id ON files(owner_id)`,
		`CREATE TABLE IF NOT EXISTS resources (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			link       TEXT NOT NULL,
			image      TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_owner_id ON resources(owner_id)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_owner_id ON notes(owner_id)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id          TEXT PRIMARY KEY,
			subject     TEXT NOT NULL,
			subtopic    TEXT NOT NULL,
			explanation TEXT NOT NULL,
			link        TEXT,
			image       TEXT,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			expires_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating (%.40s...): %w", stmt, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
//
// modernc.org/sqlite does not export a typed constraint error, so we match
// the stable "UNIQUE constraint failed" text SQLite puts in the message.
// Used as a backstop behind the explicit existence checks in user.go — the
// constraint is what actually guarantees uniqueness under concurrent inserts.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
