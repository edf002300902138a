// Package config loads all service configuration from environment variables.
//
// Every knob has a sensible local-dev default so `go run ./cmd/server` works
// with nothing set: SQLite file storage, in-memory sessions, disk uploads.
// Production deployments flip STORAGE_BACKEND / SESSION_STORE / BLOB_STORE
// and point at the real infrastructure.
package config

import "os"

type Config struct {
	Port string

	// StorageBackend selects the SQL backend: "sqlite" or "postgres".
	StorageBackend string
	SQLitePath     string
	PostgresDSN    string

	// SessionStore selects the session registry: "memory", "redis" or "db".
	// "db" keeps sessions in a table of whichever SQL backend is active.
	SessionStore  string
	RedisAddr     string
	RedisPassword string

	// BlobStore selects where uploaded files live: "disk" or "minio".
	BlobStore      string
	ContentRoot    string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// CORSOrigin is the allowed frontend origin ("" disables CORS headers).
	CORSOrigin string

	// SecureCookies marks the session cookie Secure (HTTPS only).
	// Leave false for local dev over plain HTTP.
	SecureCookies bool
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", "sqlite"),
		SQLitePath:     getenv("SQLITE_PATH", "data/studydesk.db"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		SessionStore:   getenv("SESSION_STORE", "memory"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		BlobStore:      getenv("BLOB_STORE", "disk"),
		ContentRoot:    getenv("CONTENT_ROOT", "data/uploads"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "studydesk-uploads"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		CORSOrigin:     getenv("CORS_ORIGIN", ""),
		SecureCookies:  getenv("SECURE_COOKIES", "false") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
