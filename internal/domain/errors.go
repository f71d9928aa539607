package domain

import (
	"context"
	"errors"
	"net"
)

// ErrNotConfigured is returned when a collaborator (database, model API key)
// was not configured.
var ErrNotConfigured = errors.New("backend not configured")

// ErrorKind groups collaborator failures for reporting.
type ErrorKind string

const (
	KindConfigMissing ErrorKind = "config_missing"
	KindTableNotFound ErrorKind = "table_not_found"
	KindAuth          ErrorKind = "auth"
	KindNetwork       ErrorKind = "network"
	KindUnknown       ErrorKind = "unknown"
)

// Message is a short user-facing description of the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindConfigMissing:
		return "backend is not configured"
	case KindTableNotFound:
		return "history table not found; run database migrations"
	case KindAuth:
		return "backend rejected the credentials"
	case KindNetwork:
		return "could not reach the backend"
	default:
		return "unexpected backend error"
	}
}

// Error tags an adapter error with its kind.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Kind)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Classify returns the kind of err. Adapters tag what they know via *Error;
// untagged configuration and network failures are recognized here.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, ErrNotConfigured) {
		return KindConfigMissing
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}
