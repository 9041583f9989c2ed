package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/store"
	"github.com/gorilla/mux"
)

// handleSubmit adjudicates a prior-authorization request synchronously and
// returns the decision record.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := s.pipeline.Process(r.Context(), req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.log.WithError(err).Error("failed to process request")
		writeError(w, http.StatusInternalServerError, "failed to process request")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleGet returns the stored decision record for a request id.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	record, err := s.store.Get(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "decision not found")
			return
		}
		s.log.WithError(err).WithField("request_id", requestID).Error("failed to load decision")
		writeError(w, http.StatusInternalServerError, "failed to load decision")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
