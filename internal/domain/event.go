package domain

import (
	"time"

	"github.com/couchcryptid/hail-damage-service/internal/estimate"
)

// DateLayout is the wire and storage format for event dates.
const DateLayout = "2006-01-02"

// Report is one hail event as returned by the text-generation model.
type Report struct {
	Date               string          `json:"date"`
	Time               string          `json:"time"`
	Location           string          `json:"location"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	Country            string          `json:"country"`
	Latitude           estimate.Number `json:"latitude"`
	Longitude          estimate.Number `json:"longitude"`
	HailSizeMM         estimate.Number `json:"hail_size_mm"`
	DurationMinutes    estimate.Number `json:"duration_minutes"`
	WindSpeedKMH       estimate.Number `json:"wind_speed_kmh"`
	TemperatureCelsius estimate.Number `json:"temperature_celsius"`
	DamageLevel        string          `json:"damage_level"`
	AffectedAreaKM2    estimate.Number `json:"affected_area_km2"`
	ReportsCount       estimate.Number `json:"reports_count"`
	SeverityIndex      estimate.Number `json:"severity_index"`
	Notes              string          `json:"notes"`
}

// HailEvent is a normalized hail history record.
type HailEvent struct {
	ID                 string       `json:"id"`
	Date               string       `json:"date"`
	Time               string       `json:"time"`
	Location           string       `json:"location,omitempty"`
	City               string       `json:"city"`
	State              string       `json:"state,omitempty"`
	Country            string       `json:"country"`
	Latitude           float64      `json:"latitude"`
	Longitude          float64      `json:"longitude"`
	HailSizeMM         float64      `json:"hail_size_mm"`
	Category           SizeCategory `json:"hail_size_category"`
	DurationMinutes    float64      `json:"duration_minutes"`
	WindSpeedKMH       float64      `json:"wind_speed_kmh"`
	TemperatureCelsius float64      `json:"temperature_celsius"`
	DamageLevel        string       `json:"damage_level,omitempty"`
	AffectedAreaKM2    float64      `json:"affected_area_km2"`
	ReportsCount       int          `json:"reports_count"`
	SeverityIndex      float64      `json:"severity_index"`
	Notes              string       `json:"notes,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string `json:"formatted_address,omitempty"`
	GeoSource        string `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"

	CreatedAt time.Time `json:"created_at"`
}

// HailCategory is a size band from the hail_categories reference table.
type HailCategory struct {
	ID              int          `json:"id"`
	Code            SizeCategory `json:"code"`
	Name            string       `json:"name"`
	SizeMinMM       float64      `json:"size_min_mm"`
	SizeMaxMM       *float64     `json:"size_max_mm"`
	DamagePotential string       `json:"damage_potential"`
	Description     string       `json:"description"`
}

// EventFilter narrows a history query. Zero values mean "no filter";
// Country "all" is treated the same as empty.
type EventFilter struct {
	Country     string
	StartDate   string
	EndDate     string
	MinSeverity *float64
	City        string
	Limit       int
}

// SearchResult is one narrative entry from a period search.
type SearchResult struct {
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Source      string `json:"source"`
}

// PeriodSearch is the model's answer to a free-form period search.
type PeriodSearch struct {
	Results []SearchResult `json:"results"`
	Summary string         `json:"summary"`
}
