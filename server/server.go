// Package server provides the HTTP JSON API for the trading journal: the
// browser front end talks to this, the trade store sits behind it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradelog/journal"
)

// Config holds server configuration.
type Config struct {
	Log            zerolog.Logger
	Store          journal.Store
	Port           int
	JWTSecret      string
	AllowedOrigins []string
}

// Server is the HTTP API server.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	store     journal.Store
	jwtSecret []byte
}

// New creates the server and wires all routes.
func New(cfg Config) *Server {
	secret := cfg.JWTSecret
	if secret == "" {
		// Ephemeral secret: sessions die with the process, which is fine
		// for a single-user journal.
		secret = uuid.NewString()
	}

	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log,
		store:     cfg.Store,
		jwtSecret: []byte(secret),
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/session", s.handleCreateSession)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Route("/api/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Get("/{id}", s.handleGetAccount)
			r.Delete("/{id}", s.handleDeleteAccount)
		})

		r.Route("/api/trades", func(r chi.Router) {
			r.Get("/", s.handleListTrades)
			r.Post("/", s.handleCreateTrade)
			r.Get("/{id}", s.handleGetTrade)
			r.Put("/{id}", s.handleUpdateTrade)
			r.Delete("/{id}", s.handleDeleteTrade)
		})

		r.Route("/api/notes", func(r chi.Router) {
			r.Get("/", s.handleListNotes)
			r.Post("/", s.handleCreateNote)
			r.Delete("/{id}", s.handleDeleteNote)
		})

		r.Post("/api/import", s.handleImport)

		r.Route("/api/analytics", func(r chi.Router) {
			r.Get("/summary", s.handleSummary)
			r.Get("/calendar", s.handleCalendar)
			r.Get("/equity", s.handleEquity)
			r.Get("/badges", s.handleBadges)
		})
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP until Shutdown or failure.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.log.Error().Err(err).Msg("encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
