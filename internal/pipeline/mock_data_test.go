package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hail-damage-service/internal/adapter/llm"
	"github.com/couchcryptid/hail-damage-service/internal/domain"
	"github.com/couchcryptid/hail-damage-service/internal/pipeline"
)

func readModelResponse(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "model_response.txt"))
	require.NoError(t, err)
	return string(data)
}

func TestHailTransformer_WithModelResponse(t *testing.T) {
	reports, err := llm.ParseReports(readModelResponse(t))
	require.NoError(t, err)
	require.Len(t, reports, 3)

	transformer := pipeline.NewTransformer(nil, discardLogger())

	cases := []struct {
		city     string
		time     string
		category domain.SizeCategory
		damage   string
		reports  int
		hasGeo   bool
	}{
		{city: "Curitiba", time: "16:45:00", category: domain.SizeLarge, damage: "moderate", reports: 1, hasGeo: true},
		{city: "Boulder", time: domain.DefaultTime, category: domain.SizeVeryLarge, damage: "severe", reports: 12},
		{city: "Pretoria", time: domain.DefaultTime, category: domain.SizeExtreme, damage: "extreme", reports: 1},
	}

	for i, tc := range cases {
		t.Run(tc.city, func(t *testing.T) {
			event, err := transformer.Transform(context.Background(), reports[i])
			require.NoError(t, err)

			assert.Equal(t, tc.city, event.City)
			assert.Equal(t, tc.time, event.Time)
			assert.Equal(t, tc.category, event.Category)
			assert.Equal(t, tc.damage, event.DamageLevel)
			assert.Equal(t, tc.reports, event.ReportsCount)
			assert.Equal(t, domain.EventID(event.Date, event.City, event.HailSizeMM), event.ID)
			assert.Empty(t, event.GeoSource, "no geocoder configured")
			if tc.hasGeo {
				assert.InDelta(t, -25.4284, event.Latitude, 1e-6)
			} else {
				assert.Zero(t, event.Latitude)
			}
		})
	}
}

func TestMonitorRecent_WithModelResponse(t *testing.T) {
	reports, err := llm.ParseReports(readModelResponse(t))
	require.NoError(t, err)

	store := &mockStore{}
	loader := &mockLoader{}
	res, err := newPipeline(&mockExtractor{reports: reports}, store, loader, newTestMetrics()).MonitorRecent(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.EventsFound)
	assert.Equal(t, 3, res.EventsInserted)
	assert.Len(t, loader.loaded, 3)
}
