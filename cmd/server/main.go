// Command server runs the StudyDesk HTTP API.
//
// main is deliberately thin: read the environment, construct the concrete
// backends it selects, hand everything to the server package, and start.
// All the interesting wiring lives in internal/server; all the interesting
// behaviour lives below that.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nadia/studydesk/internal/blob"
	"github.com/nadia/studydesk/internal/config"
	"github.com/nadia/studydesk/internal/repository/postgres"
	"github.com/nadia/studydesk/internal/repository/sqlite"
	"github.com/nadia/studydesk/internal/server"
	"github.com/nadia/studydesk/internal/session"
)

// sweepInterval is how often expired sessions are collected (memory and db
// stores only — Redis expires keys itself).
const sweepInterval = time.Hour

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if err := run(logger); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()

	// Background context for the process lifetime: sweepers and backend
	// setup hang off this, not off any single request.
	ctx := context.Background()

	deps, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:          cfg.Port,
		CORSOrigin:    cfg.CORSOrigin,
		SecureCookies: cfg.SecureCookies,
	}, deps, logger)

	return srv.Start()
}

// buildDeps constructs the concrete backends the environment selects.
//
// Three independent choices:
//
//	STORAGE_BACKEND  sqlite | postgres   → where records live
//	SESSION_STORE    memory | redis | db → where sessions live
//	BLOB_STORE       disk | minio        → where uploaded bytes live
//
// Any combination works; the defaults (sqlite + memory + disk) need no
// external infrastructure at all.
func buildDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (server.Deps, error) {
	var deps server.Deps

	switch cfg.StorageBackend {
	case "sqlite":
		// Make sure the parent directory exists — SQLite creates the file,
		// but not the path to it.
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return deps, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return deps, fmt.Errorf("opening sqlite database: %w", err)
		}
		deps.Users = db.Users()
		deps.Tasks = db.Tasks()
		deps.Files = db.Files()
		deps.Resources = db.Resources()
		deps.Notes = db.Notes()
		deps.Topics = db.Topics()
		deps.Closer = db

		if cfg.SessionStore == "db" {
			store := session.NewDBStore(db.Sessions())
			store.StartSweeper(ctx, sweepInterval, func(err error) {
				logger.Warn("session sweep failed", slog.String("error", err.Error()))
			})
			deps.Sessions = store
		}

		logger.Info("storage backend ready",
			slog.String("backend", "sqlite"),
			slog.String("path", cfg.SQLitePath),
		)

	case "postgres":
		store, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return deps, fmt.Errorf("connecting to postgres: %w", err)
		}
		deps.Users = store.Users()
		deps.Tasks = store.Tasks()
		deps.Files = store.Files()
		deps.Resources = store.Resources()
		deps.Notes = store.Notes()
		deps.Topics = store.Topics()
		deps.Closer = store

		if cfg.SessionStore == "db" {
			dbStore := session.NewDBStore(store.Sessions())
			dbStore.StartSweeper(ctx, sweepInterval, func(err error) {
				logger.Warn("session sweep failed", slog.String("error", err.Error()))
			})
			deps.Sessions = dbStore
		}

		logger.Info("storage backend ready", slog.String("backend", "postgres"))

	default:
		return deps, fmt.Errorf("unknown STORAGE_BACKEND %q (want sqlite or postgres)", cfg.StorageBackend)
	}

	switch cfg.SessionStore {
	case "memory":
		store := session.NewMemoryStore()
		store.StartSweeper(ctx, sweepInterval)
		deps.Sessions = store

	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return deps, fmt.Errorf("connecting to redis: %w", err)
		}
		deps.Sessions = session.NewRedisStore(rdb)

	case "db":
		// Already wired above, against whichever SQL backend is active.
		if deps.Sessions == nil {
			return deps, fmt.Errorf("SESSION_STORE=db requires a SQL storage backend")
		}

	default:
		return deps, fmt.Errorf("unknown SESSION_STORE %q (want memory, redis, or db)", cfg.SessionStore)
	}
	logger.Info("session store ready", slog.String("store", cfg.SessionStore))

	switch cfg.BlobStore {
	case "disk":
		store, err := blob.NewDiskStore(cfg.ContentRoot)
		if err != nil {
			return deps, fmt.Errorf("creating content root: %w", err)
		}
		deps.Blobs = store

	case "minio":
		store, err := blob.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return deps, fmt.Errorf("connecting to minio: %w", err)
		}
		deps.Blobs = store

	default:
		return deps, fmt.Errorf("unknown BLOB_STORE %q (want disk or minio)", cfg.BlobStore)
	}
	logger.Info("blob store ready", slog.String("store", cfg.BlobStore))

	return deps, nil
}
