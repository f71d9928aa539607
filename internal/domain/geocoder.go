package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	State            string
	Country          string
	CountryCode      string  // ISO 3166-1 alpha-2, upper case
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves hail event locations.
type Geocoder interface {
	// ForwardGeocode converts a place name and its region (state or country)
	// to coordinates.
	ForwardGeocode(ctx context.Context, name, region string) (GeocodingResult, error)

	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
