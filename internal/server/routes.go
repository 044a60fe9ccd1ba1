package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// LocalObjectsDir, when set, is served read-only under /objects/.
	LocalObjectsDir string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /programs", h.CreateProgram)
	mux.HandleFunc("GET /programs/{id}", h.GetProgram)
	mux.HandleFunc("POST /programs/{id}/videos", h.UploadProgramVideo)

	if cfg.LocalObjectsDir != "" {
		mux.Handle("GET /objects/", http.StripPrefix("/objects", http.FileServer(http.Dir(cfg.LocalObjectsDir))))
	}

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
