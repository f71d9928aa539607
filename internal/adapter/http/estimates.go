package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/estimate"
)

// saveFlag is read from the same body as the estimate request.
type saveFlag struct {
	Save bool `json:"save"`
}

// estimateResponse wraps a result with the archive id when it was saved.
type estimateResponse struct {
	ID       string `json:"id,omitempty"`
	Estimate any    `json:"estimate"`
}

func (s *Server) handleRoofEstimate(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decodeEstimate(w, r, estimate.KindRoof)
	if !ok {
		return
	}
	var req estimate.RoofRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.rejectEstimate(w, estimate.KindRoof, "invalid_body", http.StatusBadRequest, codeInvalidBody, err)
		return
	}

	res, err := s.estimator.Roof(req, r.URL.Query().Get("variant"))
	if err != nil {
		s.estimateFailed(w, estimate.KindRoof, err)
		return
	}
	s.metrics.EstimatesComputed.WithLabelValues(estimate.KindRoof, string(res.Variant)).Inc()

	s.respondEstimate(w, r, raw, estimate.Record{
		Kind:      estimate.KindRoof,
		Variant:   string(res.Variant),
		TotalCost: res.Total,
	}, res)
}

func (s *Server) handleAutoEstimate(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decodeEstimate(w, r, estimate.KindAuto)
	if !ok {
		return
	}
	var req estimate.AutoRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.rejectEstimate(w, estimate.KindAuto, "invalid_body", http.StatusBadRequest, codeInvalidBody, err)
		return
	}

	res, err := s.estimator.Auto(req)
	if err != nil {
		s.estimateFailed(w, estimate.KindAuto, err)
		return
	}
	s.metrics.EstimatesComputed.WithLabelValues(estimate.KindAuto, "-").Inc()

	s.respondEstimate(w, r, raw, estimate.Record{
		Kind:      estimate.KindAuto,
		TotalCost: res.Total,
	}, res)
}

func (s *Server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		notConfigured(w, "estimate archive")
		return
	}
	rec, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, estimate.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, "estimate not found")
		return
	}
	if err != nil {
		s.writeBackendError(w, "get estimate", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) decodeEstimate(w http.ResponseWriter, r *http.Request, kind string) ([]byte, bool) {
	raw, err := readBody(w, r)
	if err != nil {
		s.rejectEstimate(w, kind, "invalid_body", http.StatusBadRequest, codeInvalidBody, err)
		return nil, false
	}
	return raw, true
}

// respondEstimate writes the result, archiving it first when the body asked
// for "save": true.
func (s *Server) respondEstimate(w http.ResponseWriter, r *http.Request, raw []byte, rec estimate.Record, result any) {
	var flag saveFlag
	_ = json.Unmarshal(raw, &flag) // raw already decoded once

	if !flag.Save {
		writeJSON(w, http.StatusOK, estimateResponse{Estimate: result})
		return
	}
	if s.archive == nil {
		notConfigured(w, "estimate archive")
		return
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		s.writeBackendError(w, "encode estimate", err)
		return
	}
	rec.Request = json.RawMessage(raw)
	rec.Result = encoded

	saved, err := s.archive.Save(r.Context(), rec)
	if err != nil {
		s.writeBackendError(w, "save estimate", err)
		return
	}
	s.logger.Info("estimate archived", "id", saved.ID, "kind", saved.Kind, "total_cost", saved.TotalCost)
	writeJSON(w, http.StatusOK, estimateResponse{ID: saved.ID, Estimate: result})
}

func (s *Server) estimateFailed(w http.ResponseWriter, kind string, err error) {
	switch {
	case errors.Is(err, estimate.ErrMissingField):
		s.rejectEstimate(w, kind, "missing_field", http.StatusBadRequest, codeInvalidRequest, err)
	case errors.Is(err, estimate.ErrUnknownValue):
		s.rejectEstimate(w, kind, "unknown_value", http.StatusBadRequest, codeInvalidRequest, err)
	case errors.Is(err, estimate.ErrOutOfRange):
		s.rejectEstimate(w, kind, "out_of_range", http.StatusBadRequest, codeInvalidRequest, err)
	default:
		s.logger.Error("estimate failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, string(domain.KindUnknown), "estimate failed")
	}
}

func (s *Server) rejectEstimate(w http.ResponseWriter, kind, reason string, status int, code string, err error) {
	s.metrics.EstimateErrors.WithLabelValues(kind, reason).Inc()
	writeError(w, status, code, err.Error())
}
