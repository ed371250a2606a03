package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/claude/routinetimer/internal/routine"
	"github.com/go-chi/chi/v5"
)

type notice struct {
	Kind string
	Text string
}

type routineEntry struct {
	Name     string
	Valid    bool
	Duration int
}

type indexPage struct {
	Routines []routineEntry
	Notice   *notice
}

type workoutPage struct {
	Filename string
}

type errorPage struct {
	Status  int
	Message string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.log.Error("listing routines", "error", err)
		s.renderError(w, http.StatusInternalServerError, "Could not read the routine catalog.")
		return
	}
	entries := make([]routineEntry, 0, len(names))
	for _, name := range names {
		e := routineEntry{Name: name}
		if rt, err := s.store.Open(name); err == nil {
			e.Valid = true
			e.Duration = rt.TotalDuration()
		}
		entries = append(entries, e)
	}
	q := r.URL.Query()
	s.render(w, http.StatusOK, "index.html", indexPage{
		Routines: entries,
		Notice:   noticeFor(q.Get("notice"), q.Get("file")),
	})
}

func noticeFor(code, file string) *notice {
	switch code {
	case "uploaded":
		return &notice{Kind: "ok", Text: "Uploaded " + file + "."}
	case "invalid":
		return &notice{Kind: "warn", Text: "Uploaded " + file + ", but it is not a valid routine."}
	case "rejected":
		return &notice{Kind: "error", Text: "Only .yaml and .yml routine files can be uploaded."}
	case "failed":
		return &notice{Kind: "error", Text: "The upload could not be stored."}
	}
	return nil
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	name, ok := routineParam(r)
	if !ok {
		s.renderError(w, http.StatusBadRequest, "Invalid routine name.")
		return
	}
	if err := s.store.Stat(name); err != nil {
		status := s.routineStatus(name, err)
		s.renderError(w, status, routineMessage(status))
		return
	}
	s.render(w, http.StatusOK, "workout.html", workoutPage{Filename: name})
}

func (s *Server) handleRoutineData(w http.ResponseWriter, r *http.Request) {
	name, ok := routineParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid routine name"})
		return
	}
	rt, err := s.store.Open(name)
	if err != nil {
		status := s.routineStatus(name, err)
		writeJSON(w, status, map[string]string{"error": strings.ToLower(strings.TrimSuffix(routineMessage(status), "."))})
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.log.Error("listing routines", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not read the routine catalog"})
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// routineParam extracts the routine filename from the wildcard segment.
func routineParam(r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		return "", false
	}
	return name, true
}

// routineStatus maps a store failure to an HTTP status. Unexpected errors
// are logged here; expected ones are logged at debug level only.
func (s *Server) routineStatus(name string, err error) int {
	var lerr *routine.LoadError
	var verr *routine.ValidationError
	switch {
	case errors.As(err, &lerr) && lerr.Kind == routine.InvalidName:
		s.log.Debug("rejected routine name", "file", name, "error", err)
		return http.StatusBadRequest
	case errors.As(err, &lerr), errors.As(err, &verr):
		s.log.Debug("routine unavailable", "file", name, "error", err)
		return http.StatusNotFound
	default:
		s.log.Error("loading routine", "file", name, "error", err)
		return http.StatusInternalServerError
	}
}

func routineMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid routine name."
	case http.StatusNotFound:
		return "Routine not found or invalid."
	default:
		return "Something went wrong loading this routine."
	}
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	body, err := s.pages.execute(page, data)
	if err != nil {
		s.log.Error("rendering page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	s.render(w, status, "error.html", errorPage{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
