package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

// HailTransformer implements Transformer using domain normalization with
// optional geocoding enrichment.
type HailTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a HailTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *HailTransformer {
	return &HailTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *HailTransformer) Transform(ctx context.Context, r domain.Report) (domain.HailEvent, error) {
	event, err := domain.NormalizeReport(r)
	if err != nil {
		return domain.HailEvent{}, err
	}
	return domain.EnrichWithGeocoding(ctx, event, t.geocoder, t.logger), nil
}
