package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sadopc/cyclr/internal/cycle"
	"github.com/sadopc/cyclr/internal/store"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Menstrual Cycle Tracker API"})
}

func (s *Server) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var in cycle.PeriodInput
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.svc.AddPeriod(in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.svc.Periods()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if periods == nil {
		periods = []cycle.PeriodRecord{}
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleUpdatePeriod(w http.ResponseWriter, r *http.Request) {
	var patch cycle.PeriodPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.svc.UpdatePeriod(r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeletePeriod(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Period deleted successfully"})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Predictions()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		s.writeError(w, err)
		return
	}
	month, err := pathInt(r, "month")
	if err != nil {
		s.writeError(w, err)
		return
	}

	cal, err := s.svc.Calendar(year, month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &cycle.ValidationError{Field: name, Value: raw, Reason: "must be an integer"}
	}
	return n, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var verr *cycle.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return &cycle.ValidationError{Field: "body", Value: "", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return nil
}

// writeError maps validation failures to 400, unknown ids to 404 and
// anything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case cycle.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Period not found"})
	default:
		s.log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
