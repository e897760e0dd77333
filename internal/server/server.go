package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/calistheniq/internal/storage"
	"github.com/go-chi/chi/v5"
)

// defaultUserID is the single-user identity until multi-user auth lands.
const defaultUserID = 1

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  storage.Store
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store storage.Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/workouts", s.handleLogWorkout)
		r.Put("/api/v1/user/levels", s.handleSetLevels)
		r.Post("/api/v1/import", s.handleImport)
		r.Post("/api/v1/seed", s.handleSeed)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/progress/weekly", s.handleWeeklyProgress)
	s.router.Get("/api/v1/progress/levels", s.handleLevelProgress)
	s.router.Get("/api/v1/user/levels", s.handleGetLevels)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/exercises", s.handleExercises)
	s.router.Get("/api/v1/export", s.handleExport)
}

// SetFrontend mounts the embedded SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
