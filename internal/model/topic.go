package model

import "time"

// Topic is an entry in the shared study catalog. Unlike the record kinds in
// record.go, topics have NO owner — any authenticated user may read, create,
// edit, or delete any topic. This is deliberate: the catalog is a communal
// knowledge base, not per-user data.
type Topic struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Subtopic    string    `json:"subtopic"`
	Explanation string    `json:"explanation"`
	Link        *string   `json:"link"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
