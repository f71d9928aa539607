package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding fills in missing coordinates or place details. Model
// reports often carry a city but no coordinates, or coordinates with only a
// vague location. Failures never drop the event; GeoSource records what
// happened.
func EnrichWithGeocoding(ctx context.Context, event HailEvent, geocoder Geocoder, logger *slog.Logger) HailEvent {
	if geocoder == nil {
		return event
	}

	hasCoords := event.Latitude != 0 || event.Longitude != 0
	region := event.State
	if region == "" {
		region = event.Country
	}

	if !hasCoords && event.City != "" {
		result, err := geocoder.ForwardGeocode(ctx, event.City, region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"event_id", event.ID,
				"city", event.City,
				"region", region,
				"error", err,
			)
			event.GeoSource = "failed"
			return event
		}
		if result.Lat != 0 || result.Lon != 0 {
			event.Latitude = result.Lat
			event.Longitude = result.Lon
			event.FormattedAddress = result.FormattedAddress
			fillRegion(&event, result)
			event.GeoSource = "forward"
			return event
		}
		event.GeoSource = "original"
		return event
	}

	if hasCoords && event.FormattedAddress == "" {
		result, err := geocoder.ReverseGeocode(ctx, event.Latitude, event.Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"event_id", event.ID,
				"lat", event.Latitude,
				"lon", event.Longitude,
				"error", err,
			)
			event.GeoSource = "failed"
			return event
		}
		if result.FormattedAddress != "" {
			event.FormattedAddress = result.FormattedAddress
			if event.Location == "" {
				event.Location = result.PlaceName
			}
			fillRegion(&event, result)
			event.GeoSource = "reverse"
			return event
		}
	}

	event.GeoSource = "original"
	return event
}

// fillRegion copies the provider's state and country into fields the model
// left blank. Reported values are never overwritten.
func fillRegion(event *HailEvent, result GeocodingResult) {
	if event.State == "" {
		event.State = result.State
	}
	if event.Country == "" {
		event.Country = result.Country
	}
}
