package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SizeCategory classifies hail by diameter.
type SizeCategory string

const (
	SizeSmall     SizeCategory = "small"
	SizeMedium    SizeCategory = "medium"
	SizeLarge     SizeCategory = "large"
	SizeVeryLarge SizeCategory = "very_large"
	SizeExtreme   SizeCategory = "extreme"
)

// DefaultTime is stored when a report omits the time of day.
const DefaultTime = "00:00:00"

// ErrInvalidReport marks a model report that cannot become a HailEvent.
var ErrInvalidReport = errors.New("invalid hail report")

// eventNamespace scopes name-based event IDs.
var eventNamespace = uuid.MustParse("6f1c7c9e-3a53-4c47-9b8e-2f0d6a1e5b21")

// timeRe accepts "H:MM", "HH:MM" and "HH:MM:SS".
var timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ClassifyHailSize maps a diameter in millimetres to its category.
func ClassifyHailSize(mm float64) SizeCategory {
	switch {
	case mm > 100:
		return SizeExtreme
	case mm > 50:
		return SizeVeryLarge
	case mm > 25:
		return SizeLarge
	case mm > 15:
		return SizeMedium
	default:
		return SizeSmall
	}
}

// EventID returns the deterministic ID for the de-duplication key
// (date, city, hail size). City comparison is case-insensitive.
func EventID(date, city string, sizeMM float64) string {
	key := fmt.Sprintf("%s|%s|%s", date, strings.ToLower(strings.TrimSpace(city)), formatSize(sizeMM))
	return uuid.NewSHA1(eventNamespace, []byte(key)).String()
}

// NormalizeReport validates a model report and fills defaults. The date must
// parse; a city (or, failing that, a location) is required.
func NormalizeReport(r Report) (HailEvent, error) {
	date := strings.TrimSpace(r.Date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return HailEvent{}, fmt.Errorf("%w: date %q", ErrInvalidReport, r.Date)
	}

	city := strings.TrimSpace(r.City)
	location := strings.TrimSpace(r.Location)
	if city == "" {
		city = location
	}
	if city == "" {
		return HailEvent{}, fmt.Errorf("%w: no city or location", ErrInvalidReport)
	}

	tod, err := normalizeTime(r.Time)
	if err != nil {
		return HailEvent{}, err
	}

	reports := r.ReportsCount.Int()
	if reports < 1 {
		reports = 1
	}

	size := r.HailSizeMM.Float()
	return HailEvent{
		ID:                 EventID(date, city, size),
		Date:               date,
		Time:               tod,
		Location:           location,
		City:               city,
		State:              strings.TrimSpace(r.State),
		Country:            strings.TrimSpace(r.Country),
		Latitude:           r.Latitude.Value,
		Longitude:          r.Longitude.Value,
		HailSizeMM:         size,
		Category:           ClassifyHailSize(size),
		DurationMinutes:    r.DurationMinutes.Float(),
		WindSpeedKMH:       r.WindSpeedKMH.Float(),
		TemperatureCelsius: r.TemperatureCelsius.Value,
		DamageLevel:        strings.ToLower(strings.TrimSpace(r.DamageLevel)),
		AffectedAreaKM2:    r.AffectedAreaKM2.Float(),
		ReportsCount:       reports,
		SeverityIndex:      r.SeverityIndex.Float(),
		Notes:              strings.TrimSpace(r.Notes),
		CreatedAt:          clock.Now().UTC(),
	}, nil
}

// normalizeTime pads a report time to HH:MM:SS.
func normalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTime, nil
	}
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: time %q", ErrInvalidReport, s)
	}
	hour, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs := 0
	if m[3] != "" {
		secs, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || mins > 59 || secs > 59 {
		return "", fmt.Errorf("%w: time %q", ErrInvalidReport, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hour, mins, secs), nil
}

// formatSize renders a size without float noise so equal sizes hash equally.
func formatSize(mm float64) string {
	return strconv.FormatFloat(math.Round(mm*100)/100, 'f', -1, 64)
}
