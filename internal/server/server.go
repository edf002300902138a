// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. The storage backends themselves (SQL database, session registry,
// blob store) are constructed in main and handed in through Deps; the server
// only decides which URL patterns reach which handlers and what middleware
// wraps them.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (a test can assemble a Server over in-memory deps)
// - Reusable (multiple entry points share the same route table)
// - Clean (main.go stays minimal — pick backends, start the server)
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/blob"
	"github.com/nadia/studydesk/internal/handler"
	"github.com/nadia/studydesk/internal/middleware"
	"github.com/nadia/studydesk/internal/repository"
	"github.com/nadia/studydesk/internal/service"
	"github.com/nadia/studydesk/internal/session"
)

// Config holds the server's HTTP-level configuration.
type Config struct {
	Port          string
	CORSOrigin    string
	SecureCookies bool
}

// Deps carries the storage backends the routes are wired over. main
// assembles whichever concrete implementations the environment selects
// (SQLite or Postgres repositories, memory/Redis/DB sessions, disk or
// MinIO blobs) — the server never knows which it got.
type Deps struct {
	Users     repository.UserRepository
	Tasks     repository.TaskRepository
	Files     repository.FileRepository
	Resources repository.ResourceRepository
	Notes     repository.NoteRepository
	Topics    repository.TopicRepository

	Sessions session.Store
	Blobs    blob.Store

	// Closer shuts down the storage backend on exit (nil is allowed).
	Closer io.Closer
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	deps   Deps
	logger *slog.Logger
}

// New assembles the full dependency chain and route table.
//
// COMPOSITION ROOT:
// Every service and handler is constructed here, each layer receiving only
// the interfaces it needs. The handler never touches the database; the
// service never touches HTTP.
func New(cfg Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		deps:   deps,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the route table, mainly so tests can drive the server
// through httptest without opening a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /api/health                 → liveness probe          (public)
//	POST   /api/register               → create account          (public)
//	POST   /api/login                  → authenticate            (public)
//	GET    /api/logout                 → destroy session         (public)
//	GET    /uploads/{key}              → stored file content     (public, unguessable key)
//	GET    /api/user                   → own profile             (session)
//	POST   /api/user/update            → update own profile      (session)
//	CRUD   /api/tasks[/{id}]           → owner-scoped            (session)
//	CRUD   /api/files[/{id}]           → owner-scoped, no update (session)
//	CRUD   /api/resources[/{id}]       → owner-scoped            (session)
//	CRUD   /api/notes[/{id}]           → owner-scoped            (session)
//	CRUD   /api/topics[/{id}]          → shared catalog          (session)
//
// MIDDLEWARE ORDER MATTERS:
// RequestID must precede Logger (the log line reads the id from context),
// and Recoverer should sit inside Logger so a recovered panic still gets a
// request log line with its 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	if s.config.CORSOrigin != "" {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{s.config.CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true, // the session cookie must ride along
			MaxAge:           300,
		}))
	}

	// === SERVICES ===
	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.deps.Users, s.deps.Sessions, passwords, s.deps.Blobs, s.logger)
	taskService := service.NewTaskService(s.deps.Tasks, s.logger)
	fileService := service.NewFileService(s.deps.Files, s.deps.Blobs, s.logger)
	resourceService := service.NewResourceService(s.deps.Resources, s.deps.Blobs, s.logger)
	noteService := service.NewNoteService(s.deps.Notes, s.logger)
	topicService := service.NewTopicService(s.deps.Topics, s.deps.Blobs, s.logger)

	// === HANDLERS ===
	authHandler := handler.NewAuthHandler(authService, s.config.SecureCookies, s.logger)
	taskHandler := handler.NewTaskHandler(taskService)
	fileHandler := handler.NewFileHandler(fileService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	noteHandler := handler.NewNoteHandler(noteService)
	topicHandler := handler.NewTopicHandler(topicService)
	uploadHandler := handler.NewUploadHandler(s.deps.Blobs, s.logger)

	// === PUBLIC ROUTES ===
	s.router.Get("/api/health", handler.HandleHealth)
	s.router.Post("/api/register", authHandler.HandleRegister)
	s.router.Post("/api/login", authHandler.HandleLogin)
	s.router.Get("/api/logout", authHandler.HandleLogout)
	s.router.Get("/uploads/{key}", uploadHandler.HandleServe)

	// === PROTECTED ROUTES ===
	// Everything below requires a valid session; the middleware resolves the
	// cookie to a userID and stores it in the request context.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(s.deps.Sessions))

		r.Get("/api/user", authHandler.HandleGetUser)
		r.Post("/api/user/update", authHandler.HandleUpdateProfile)

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.HandleList)
			r.Post("/", taskHandler.HandleCreate)
			r.Get("/{id}", taskHandler.HandleGet)
			r.Put("/{id}", taskHandler.HandleUpdate)
			r.Delete("/{id}", taskHandler.HandleDelete)
		})

		r.Route("/api/files", func(r chi.Router) {
			r.Get("/", fileHandler.HandleList)
			r.Post("/", fileHandler.HandleCreate)
			r.Get("/{id}", fileHandler.HandleGet)
			r.Delete("/{id}", fileHandler.HandleDelete)
		})

		r.Route("/api/resources", func(r chi.Router) {
			r.Get("/", resourceHandler.HandleList)
			r.Post("/", resourceHandler.HandleCreate)
			r.Get("/{id}", resourceHandler.HandleGet)
			r.Put("/{id}", resourceHandler.HandleUpdate)
			r.Delete("/{id}", resourceHandler.HandleDelete)
		})

		r.Route("/api/notes", func(r chi.Router) {
			r.Get("/", noteHandler.HandleList)
			r.Post("/", noteHandler.HandleCreate)
			r.Get("/{id}", noteHandler.HandleGet)
			r.Put("/{id}", noteHandler.HandleUpdate)
			r.Delete("/{id}", noteHandler.HandleDelete)
		})

		r.Route("/api/topics", func(r chi.Router) {
			r.Get("/", topicHandler.HandleList)
			r.Post("/", topicHandler.HandleCreate)
			r.Get("/{id}", topicHandler.HandleGet)
			r.Put("/{id}", topicHandler.HandleUpdate)
			r.Delete("/{id}", topicHandler.HandleDelete)
		})
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the storage backend (flushes SQLite's WAL / releases the pool)
//
// The `defer` on Closer makes step 3 happen even if something panics.
func (s *Server) Start() error {
	if s.deps.Closer != nil {
		defer s.deps.Closer.Close()
	}

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting", slog.String("port", s.config.Port))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
