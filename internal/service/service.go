// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes to the database
//
// Handlers only know about HTTP. Services only know about business rules
// and return domain errors (apperror), never status codes. Repositories
// only know about SQL. Each service takes its repository INTERFACE, so
// tests inject in-memory mocks and main injects SQLite or Postgres.
package service

import (
	"context"
	"log/slog"

	"github.com/nadia/studydesk/internal/blob"
)

// reclaimBlob deletes a stored blob in the background.
//
// FIRE-AND-FORGET BY CONTRACT:
// Deleting a record and reclaiming its file are two independently observable
// facts, not one atomic step. The database row is the operation's success
// condition; storage reclamation is best-effort. So we:
//   - spawn a goroutine and never wait for it,
//   - use context.Background() (NOT the request context — the HTTP response
//     has likely already been written, and a cancelled request context would
//     abort the cleanup we still want),
//   - log failures and nothing else. An orphaned blob is wasted disk, not
//     data corruption; a failed delete response over a missing blob would be
//     far worse.
func reclaimBlob(blobs blob.Store, logger *slog.Logger, key string) {
	if key == "" {
		return
	}
	go func() {
		if err := blobs.Remove(context.Background(), key); err != nil {
			logger.Warn("blob reclamation failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}()
}
