package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/claude/routinetimer/internal/routine"
)

const uploadField = "routine_file"

// uploadResult reports what happened to an accepted upload. A file that
// fails validation is still stored and reported with Valid false.
type uploadResult struct {
	Filename      string `json:"filename"`
	Valid         bool   `json:"valid"`
	TotalDuration int    `json:"total_duration"`
	Error         string `json:"error,omitempty"`
}

// uploadError is a rejected upload; nothing was stored.
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

// receiveUpload stores the multipart routine file and validates the result.
func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) (*uploadResult, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &uploadError{status: http.StatusRequestEntityTooLarge, message: "routine file is too large"}
		}
		return nil, &uploadError{status: http.StatusBadRequest, message: "no routine file selected"}
	}
	defer file.Close()

	if !routine.HasAllowedExtension(header.Filename) {
		return nil, &uploadError{status: http.StatusBadRequest, message: "only .yaml and .yml files are accepted"}
	}

	name, err := s.store.Save(header.Filename, file)
	if err != nil {
		var lerr *routine.LoadError
		if errors.As(err, &lerr) {
			return nil, &uploadError{status: http.StatusBadRequest, message: "invalid routine filename"}
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &uploadError{status: http.StatusRequestEntityTooLarge, message: "routine file is too large"}
		}
		s.log.Error("storing upload", "file", header.Filename, "error", err)
		return nil, &uploadError{status: http.StatusInternalServerError, message: "could not store routine file"}
	}
	s.log.Info("routine uploaded", "file", name, "size", header.Size)

	res := &uploadResult{Filename: name}
	rt, err := s.store.Open(name)
	if err != nil {
		var verr *routine.ValidationError
		var lerr *routine.LoadError
		switch {
		case errors.As(err, &verr):
			res.Error = verr.Error()
		case errors.As(err, &lerr) && lerr.Kind == routine.SyntaxError:
			res.Error = "routine file is not valid YAML"
		default:
			s.log.Error("validating upload", "file", name, "error", err)
			return nil, &uploadError{status: http.StatusInternalServerError, message: "could not read stored routine"}
		}
		s.log.Warn("uploaded routine is invalid", "file", name, "error", err)
		return res, nil
	}
	res.Valid = true
	res.TotalDuration = rt.TotalDuration()
	return res, nil
}

// handleUploadForm serves the browser form and redirects back to the index
// with a notice describing the outcome.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	res, err := s.receiveUpload(w, r)
	if err != nil {
		uerr := err.(*uploadError)
		switch uerr.status {
		case http.StatusRequestEntityTooLarge:
			s.renderError(w, uerr.status, "The routine file is too large.")
		case http.StatusInternalServerError:
			s.redirectNotice(w, r, "failed", "")
		default:
			s.redirectNotice(w, r, "rejected", "")
		}
		return
	}
	if res.Valid {
		s.redirectNotice(w, r, "uploaded", res.Filename)
	} else {
		s.redirectNotice(w, r, "invalid", res.Filename)
	}
}

func (s *Server) redirectNotice(w http.ResponseWriter, r *http.Request, code, file string) {
	q := url.Values{"notice": {code}}
	if file != "" {
		q.Set("file", file)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// handleUploadAPI accepts the same multipart upload as the form and answers
// with JSON.
func (s *Server) handleUploadAPI(w http.ResponseWriter, r *http.Request) {
	res, err := s.receiveUpload(w, r)
	if err != nil {
		uerr := err.(*uploadError)
		writeJSON(w, uerr.status, map[string]string{"error": uerr.message})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
