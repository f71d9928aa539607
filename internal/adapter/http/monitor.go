package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/hail-damage-service/internal/pipeline"
)

type rangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Region    string `json:"region"`
}

type periodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Language  string `json:"language"`
}

func (s *Server) handleMonitorRun(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		notConfigured(w, "monitor")
		return
	}
	res, err := s.monitor.MonitorRecent(r.Context())
	s.writeMonitorResult(w, res, err)
}

func (s *Server) handleMonitorSearch(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		notConfigured(w, "monitor")
		return
	}
	var req rangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.monitor.SearchRange(r.Context(), req.StartDate, req.EndDate, req.Region)
	s.writeMonitorResult(w, res, err)
}

func (s *Server) handleHailSearch(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		notConfigured(w, "monitor")
		return
	}
	var req periodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := s.monitor.SearchPeriod(r.Context(), req.StartDate, req.EndDate, req.Language)
	if errors.Is(err, pipeline.ErrInvalidRange) {
		writeError(w, http.StatusBadRequest, codeInvalidRange, err.Error())
		return
	}
	if err != nil {
		s.writeBackendError(w, "hail search", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// writeMonitorResult answers 200 for any pass that reached the model. A
// pass that failed before finding anything takes the status of its error kind.
func (s *Server) writeMonitorResult(w http.ResponseWriter, res pipeline.Result, err error) {
	switch {
	case errors.Is(err, pipeline.ErrMonitorBusy):
		writeError(w, http.StatusConflict, codeMonitorBusy, err.Error())
		return
	case errors.Is(err, pipeline.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, codeInvalidRange, err.Error())
		return
	case err != nil:
		s.writeBackendError(w, "monitoring pass", err)
		return
	}
	status := http.StatusOK
	if res.ErrorKind != "" && res.EventsFound == 0 {
		status = statusFor(res.ErrorKind)
	}
	writeJSON(w, status, res)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	raw, err := readBody(w, r)
	if err == nil {
		err = json.Unmarshal(raw, v)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidBody, err.Error())
		return false
	}
	return true
}
