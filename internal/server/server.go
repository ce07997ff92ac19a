// Package server wires the application together: router, middleware, route
// table, and lifecycle. It is the composition root — every dependency chain
// (DB → repositories → services → handlers) is assembled in one place, and
// main.go only has to construct a Server and start it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/simple-todo/internal/handler"
	"github.com/sakif/simple-todo/internal/middleware"
	sqliteRepo "github.com/sakif/simple-todo/internal/repository/sqlite"
	"github.com/sakif/simple-todo/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	StaticDir string // document root for non-API requests
	DBPath    string // path to the SQLite database file, or ":memory:"
}

// Server owns the router and the database handle. The handle is closed
// during shutdown, after in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, runs migrations, and wires all
// routes. On error nothing is left open.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// Router exposes the configured router, mainly so tests can drive the full
// stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures middleware and the route table.
//
// Routing table:
//
//	POST /api/register              → create account
//	POST /api/login                 → verify credentials
//	GET  /api/users/{userID}/lists  → fetch lists + nested items
//	POST /api/users/{userID}/lists  → create list
//	POST /api/lists/{listID}/items  → create item
//	GET  /* (non-API)               → static document root
//	anything else                   → 404
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	authService := service.NewAuthService(s.db.Users(), s.logger)
	todoService := service.NewTodoService(s.db.Users(), s.db.Lists(), s.db.Items(), s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Everything under /api answers in JSON, including misses. A wrong
		// method on a known path is a miss too (404, not 405) — the API is
		// a closed table of method+path pairs.
		r.NotFound(handler.NotFound)
		r.MethodNotAllowed(handler.NotFound)

		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/users/{userID}/lists", todoHandler.HandleListsForUser)
		r.Post("/users/{userID}/lists", todoHandler.HandleCreateList)
		r.Post("/lists/{listID}/items", todoHandler.HandleCreateItem)
	})

	// The browser UI. Out of band for the API: plain files, no JSON.
	// GET only — http.FileServer ignores the request method, so a POST to
	// a static path would otherwise be served as if it were a GET.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Get("/*", fileServer.ServeHTTP)
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds
// to finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
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
