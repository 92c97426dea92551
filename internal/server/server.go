// Package server is the remote SQL service: the HTTP peer of the remote
// storage driver. It exposes the query/execute contract, accepts full
// database snapshots from embedded clients, and serves the last snapshot
// back. Authentication is a single static bearer token.
package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	db           *DB
	token        string
	snapshotPath string
	router       *chi.Mux
	limiter      *RateLimiter
}

func New(db *DB, token, snapshotPath string) *Server {
	s := &Server{
		db:           db,
		token:        token,
		snapshotPath: snapshotPath,
		router:       chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(corsMiddleware)

	s.router.Get("/health", s.healthHandler)
	s.router.Get("/db/dashboard.sqlite", s.snapshotHandler)

	s.limiter = NewRateLimiter(100, time.Minute)
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Use(s.authMiddleware)
		r.Post("/query", s.queryHandler)
		r.Post("/execute", s.executeHandler)
		// Non-POST methods fall through to chi's 405 response.
		r.Post("/save-db", s.saveDBHandler)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the rate limiter's background goroutine. The database handle is
// owned by the caller and not closed here.
func (s *Server) Close() {
	s.limiter.Stop()
}

// corsMiddleware implements the collaborator contract: permissive origin,
// GET/POST/OPTIONS, Content-Type and Authorization headers, and an empty 200
// for pre-flight.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			jsonError(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			jsonError(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(s.token)) != 1 {
			jsonError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
