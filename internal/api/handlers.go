package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/engine/rules"
	"prouni-simulator/internal/models"
	"prouni-simulator/internal/simulation"
)

// SubmitResponse is returned when a simulation reaches the result state.
type SubmitResponse struct {
	Record          *models.OutcomeRecord `json:"record"`
	Recommendations []string              `json:"recommendations,omitempty"`
}

type errorResponse struct {
	Detail string                 `json:"detail"`
	Code   apperrors.ErrorCode    `json:"code"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"engine": string(s.engine.Kind()),
		"store":  s.store.Driver(),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orchestrator(r).Snapshot())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var profile models.CandidateProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.writeError(w, "api.submit", apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "body", Message: "Corpo da requisição inválido"},
		}))
		return
	}

	rec, err := s.orchestrator(r).Submit(r.Context(), profile)
	if err != nil {
		s.writeError(w, "api.submit", err)
		return
	}

	resp := SubmitResponse{Record: rec}
	if rec.Engine == models.EngineRules {
		resp.Recommendations = rules.Recommendations(rec.Eligible)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	o := s.orchestrator(r)
	o.Restart()
	writeJSON(w, http.StatusOK, o.Snapshot())
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, "api.records.list", err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "api.records.get", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "api.records.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, simulation.ErrAttemptAbandoned) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Detail: "A simulação foi reiniciada antes de terminar",
			Code:   apperrors.ErrCodeInvalidTransition,
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	var stdErr *apperrors.StandardError
	if status >= http.StatusInternalServerError {
		stdErr = s.errHandler.Handle(op, err)
	} else {
		stdErr = apperrors.Normalize(err)
	}

	writeJSON(w, status, errorResponse{
		Detail: stdErr.Message,
		Code:   stdErr.Code,
		Fields: stdErr.Fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
