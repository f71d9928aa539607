package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// Error codes returned to clients besides the domain error kinds.
const (
	codeInvalidBody    = "invalid_body"
	codeInvalidRequest = "invalid_request"
	codeInvalidRange   = "invalid_range"
	codeNotFound       = "not_found"
	codeMonitorBusy    = "monitor_busy"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	sharedobs.WriteJSON(w, status, errorResponse{Code: code, Message: message})
}

// statusFor maps a collaborator error kind to the response status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindConfigMissing:
		return http.StatusServiceUnavailable
	case domain.KindAuth, domain.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeBackendError reports a collaborator failure by kind. The underlying
// error is logged, never sent to the client.
func (s *Server) writeBackendError(w http.ResponseWriter, op string, err error) {
	kind := domain.Classify(err)
	s.logger.Error(op+" failed", "error", err, "error_kind", kind)
	writeError(w, statusFor(kind), string(kind), kind.Message())
}

func notConfigured(w http.ResponseWriter, what string) {
	writeError(w, http.StatusServiceUnavailable, string(domain.KindConfigMissing), what+" is not configured")
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(b) == 0 {
		return nil, errors.New("empty body")
	}
	return b, nil
}
