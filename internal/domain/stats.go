package domain

import (
	"sort"
	"strings"
)

// Statistics summarizes a set of hail events.
type Statistics struct {
	TotalEvents      int            `json:"total_events"`
	AverageSeverity  float64        `json:"average_severity"`
	LargestHailMM    float64        `json:"largest_hail_mm"`
	MostAffectedCity string         `json:"most_affected_city"`
	EventsByYear     map[string]int `json:"events_by_year"`
}

// ComputeStatistics aggregates events. The most affected city is the one with
// the most events; ties go to the alphabetically first name.
func ComputeStatistics(events []HailEvent) Statistics {
	stats := Statistics{EventsByYear: make(map[string]int)}
	if len(events) == 0 {
		return stats
	}

	var severitySum float64
	cities := make(map[string]int)
	for _, e := range events {
		severitySum += e.SeverityIndex
		if e.HailSizeMM > stats.LargestHailMM {
			stats.LargestHailMM = e.HailSizeMM
		}
		if e.City != "" {
			cities[e.City]++
		}
		if year, _, ok := strings.Cut(e.Date, "-"); ok {
			stats.EventsByYear[year]++
		}
	}

	stats.TotalEvents = len(events)
	stats.AverageSeverity = severitySum / float64(len(events))

	names := make([]string, 0, len(cities))
	for name := range cities {
		names = append(names, name)
	}
	sort.Strings(names)
	best := 0
	for _, name := range names {
		if cities[name] > best {
			best = cities[name]
			stats.MostAffectedCity = name
		}
	}
	return stats
}
