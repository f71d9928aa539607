package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/hail-damage-service/internal/adapter/http"
	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/estimate"
	"github.com/couchcryptid/hail-damage-service/internal/observability"
	"github.com/couchcryptid/hail-damage-service/internal/pipeline"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockHistory struct {
	events     []domain.HailEvent
	categories []domain.HailCategory
	err        error
	filters    []domain.EventFilter
}

func (m *mockHistory) List(_ context.Context, f domain.EventFilter) ([]domain.HailEvent, error) {
	m.filters = append(m.filters, f)
	return m.events, m.err
}

func (m *mockHistory) Categories(_ context.Context) ([]domain.HailCategory, error) {
	return m.categories, m.err
}

type mockMonitor struct {
	result pipeline.Result
	period domain.PeriodSearch
	err    error

	rangeArgs  []string
	periodArgs []string
}

func (m *mockMonitor) MonitorRecent(_ context.Context) (pipeline.Result, error) {
	return m.result, m.err
}

func (m *mockMonitor) SearchRange(_ context.Context, start, end, region string) (pipeline.Result, error) {
	m.rangeArgs = []string{start, end, region}
	return m.result, m.err
}

func (m *mockMonitor) SearchPeriod(_ context.Context, start, end, language string) (domain.PeriodSearch, error) {
	m.periodArgs = []string{start, end, language}
	return m.period, m.err
}

type mockArchive struct {
	records map[string]estimate.Record
	err     error
}

func newMockArchive() *mockArchive {
	return &mockArchive{records: map[string]estimate.Record{}}
}

func (m *mockArchive) Save(_ context.Context, rec estimate.Record) (estimate.Record, error) {
	if m.err != nil {
		return estimate.Record{}, m.err
	}
	rec.ID = uuid.NewString()
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *mockArchive) Get(_ context.Context, id string) (estimate.Record, error) {
	if m.err != nil {
		return estimate.Record{}, m.err
	}
	rec, ok := m.records[id]
	if !ok {
		return estimate.Record{}, estimate.ErrRecordNotFound
	}
	return rec, nil
}

func testEstimator(t *testing.T) *estimate.Estimator {
	t.Helper()
	e, err := estimate.NewEstimator(estimate.DefaultCatalog(), estimate.VariantAdvanced)
	require.NoError(t, err)
	return e
}

func newTestServer(t *testing.T, readyErr error, deps httpadapter.Deps) *httpadapter.Server {
	t.Helper()
	if deps.Estimator == nil {
		deps.Estimator = testEstimator(t)
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetricsForTesting()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, deps, logger)
}

func do(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code, body.Message
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, nil, httpadapter.Deps{})
	rec := do(srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(t, nil, httpadapter.Deps{})
	rec := do(srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(t, fmt.Errorf("hail history: connection refused"), httpadapter.Deps{})
	rec := do(srv, http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "hail history: connection refused", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, httpadapter.Deps{})
	rec := do(srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := newTestServer(t, nil, httpadapter.Deps{})
	rec := do(srv, http.MethodGet, "/v1/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWrongMethodReturns405(t *testing.T) {
	tests := []struct {
		name    string
		archive httpadapter.EstimateArchive
		target  string
	}{
		{name: "roof without archive", target: "/v1/estimates/roof"},
		{name: "auto without archive", target: "/v1/estimates/auto"},
		{name: "roof with archive", archive: newMockArchive(), target: "/v1/estimates/roof"},
		{name: "auto with archive", archive: newMockArchive(), target: "/v1/estimates/auto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil, httpadapter.Deps{Archive: tt.archive})
			rec := do(srv, http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}
