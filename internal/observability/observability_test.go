package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hail-damage-service/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		enabled slog.Level
		dropped slog.Level
	}{
		{level: "warn", format: "json", enabled: slog.LevelWarn, dropped: slog.LevelInfo},
		{level: "DEBUG", format: "text", enabled: slog.LevelDebug, dropped: slog.LevelDebug - 4},
		{level: "nonsense", format: "json", enabled: slog.LevelInfo, dropped: slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format})

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.dropped))
			assert.Same(t, logger.Handler(), slog.Default().Handler())
		})
	}
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.EventsInserted))

	m.EventsInserted.Add(3)
	m.EstimatesComputed.WithLabelValues("roof", "advanced").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsInserted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EstimatesComputed.WithLabelValues("roof", "advanced")))
	assert.Len(t, m.collectors(), 16)
}
