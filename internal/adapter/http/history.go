package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		notConfigured(w, "hail history")
		return
	}
	f, err := parseEventFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	events, err := s.history.List(r.Context(), f)
	if err != nil {
		s.writeBackendError(w, "list hail events", err)
		return
	}
	if events == nil {
		events = []domain.HailEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		notConfigured(w, "hail history")
		return
	}
	events, err := s.history.List(r.Context(), domain.EventFilter{Country: r.URL.Query().Get("country")})
	if err != nil {
		s.writeBackendError(w, "hail statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ComputeStatistics(events))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		notConfigured(w, "hail history")
		return
	}
	cats, err := s.history.Categories(r.Context())
	if err != nil {
		s.writeBackendError(w, "list hail categories", err)
		return
	}
	if cats == nil {
		cats = []domain.HailCategory{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func parseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	f := domain.EventFilter{
		Country:   q.Get("country"),
		StartDate: q.Get("start"),
		EndDate:   q.Get("end"),
		City:      strings.TrimSpace(q.Get("city")),
	}
	for name, v := range map[string]string{"start": f.StartDate, "end": f.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, v); err != nil {
			return domain.EventFilter{}, &paramError{name: name, want: "a YYYY-MM-DD date"}
		}
	}
	if v := q.Get("min_severity"); v != "" {
		sev, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.EventFilter{}, &paramError{name: "min_severity", want: "a number"}
		}
		f.MinSeverity = &sev
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return domain.EventFilter{}, &paramError{name: "limit", want: "a non-negative integer"}
		}
		f.Limit = n
	}
	return f, nil
}

type paramError struct {
	name string
	want string
}

func (e *paramError) Error() string {
	return "query parameter " + e.name + " must be " + e.want
}
