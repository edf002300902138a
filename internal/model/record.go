package model

import "time"

// The four owner-scoped record kinds. Every row carries an OwnerID and is
// only ever read or written through queries filtered by that owner — the
// repository layer enforces this in SQL, not the handlers.

// Task is a to-do item.
type Task struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FileRecord is the database side of an uploaded file. Path is the blob
// store key; the record and the blob have independent lifecycles (the blob
// is reclaimed best-effort after the row is deleted).
type FileRecord struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Path      string    `json:"path"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// Resource is a bookmarked link with an optional preview image.
//
// Image is *string so that a resource without an image serializes as
// `"image": null` — the frontend checks for null, not for "".
type Resource struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note is a free-form text note. Content is required — the service rejects
// empty notes.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"-"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
