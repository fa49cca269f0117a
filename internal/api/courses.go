package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "prouni-simulator/internal/common/errors"
)

// handleListCourses proxies the backend catalog. skip and limit are passed
// through; the client clamps them.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip")
	if err != nil {
		s.writeError(w, "api.courses.list", err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, "api.courses.list", err)
		return
	}

	courses, err := s.courses.ListCourses(r.Context(), skip, limit)
	if err != nil {
		s.writeError(w, "api.courses.list", err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.writeError(w, "api.courses.get", apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "id", Message: "Identificador de curso inválido"},
		}))
		return
	}

	course, err := s.courses.GetCourse(r.Context(), id)
	if err != nil {
		var stdErr *apperrors.StandardError
		if apperrors.As(err, &stdErr) && stdErr.StatusCode == http.StatusNotFound {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: stdErr.Message, Code: apperrors.ErrCodeRecordNotFound})
			return
		}
		s.writeError(w, "api.courses.get", err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: name, Message: "Informe um número inteiro não negativo"},
		})
	}
	return v, nil
}
