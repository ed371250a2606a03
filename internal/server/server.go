package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/routinetimer/internal/routine"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     *routine.Store
	pages     *pages
	static    fs.FS
	log       *slog.Logger
	maxUpload int64
	router    chi.Router
}

// New creates a new Server with all routes configured. webFS must contain
// templates/ and static/ directories.
func New(store *routine.Store, webFS fs.FS, maxUpload int64, assetVer string, log *slog.Logger) (*Server, error) {
	p, err := loadPages(webFS, assetVer)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	static, err := fs.Sub(webFS, "static")
	if err != nil {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}

	s := &Server{
		store:     store,
		pages:     p,
		static:    static,
		log:       log,
		maxUpload: maxUpload,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS)

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Post("/upload", s.handleUploadForm)
	s.router.Get("/workout/*", s.handleWorkout)

	// Data for the timer page
	s.router.Get("/routine/*", s.handleRoutineData)

	// API
	s.router.Get("/api/v1/routines", s.handleListRoutines)
	s.router.Post("/api/v1/routines", s.handleUploadAPI)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(s.static)))

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound, "Page not found.")
	})
}
