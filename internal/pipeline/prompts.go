package pipeline

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

const (
	monitorTemperature = 0.3
	periodTemperature  = 0.7
)

const analystRole = "You are a meteorological data analyst specialized in hailstorm events. " +
	"Search for %shailstorm reports from reliable weather sources, news outlets, and meteorological databases. " +
	"Provide accurate, verified information only."

const eventFields = `For each event found, provide:
- Date (YYYY-MM-DD format)
- Time (HH:MM:SS format)
- Location (specific place/neighborhood)
- City
- State (if applicable)
- Country
- Latitude and longitude (if available)
- Hail size in millimeters
- Duration in minutes (if available)
- Wind speed in km/h (if available)
- Temperature in Celsius (if available)
- Damage level (light, moderate, severe or extreme)
- Severity index (0-10 scale)
- Brief description/notes

Format your response as a JSON array of events. If no events found, return an empty array.`

const eventExample = `

Example format:
[
  {
    "date": "2024-01-15",
    "time": "14:30:00",
    "location": "Downtown",
    "city": "Oklahoma City",
    "state": "OK",
    "country": "United States",
    "hail_size_mm": 45,
    "duration_minutes": 30,
    "wind_speed_kmh": 95,
    "temperature_celsius": 20,
    "damage_level": "severe",
    "severity_index": 8,
    "notes": "Severe hailstorm with significant damage to vehicles"
  }
]`

// languages maps request language codes to the language name used in the
// period search prompt. Unknown codes fall back to Portuguese.
var languages = map[string]string{
	"pt": "português",
	"en": "English",
	"es": "español",
	"it": "italiano",
	"fr": "français",
	"nl": "Nederlands",
	"ja": "日本語",
}

const defaultLanguage = "pt"

func recentPrompt(since string) domain.Prompt {
	return domain.Prompt{
		System:      fmt.Sprintf(analystRole, "recent "),
		User:        fmt.Sprintf("Search for recent hailstorm events since %s.\n\n", since) + eventFields + eventExample,
		Temperature: monitorTemperature,
		JSON:        true,
	}
}

func rangePrompt(start, end, region string) domain.Prompt {
	scope := " worldwide"
	if r := strings.TrimSpace(region); r != "" {
		scope = " in " + r
	}
	return domain.Prompt{
		System:      fmt.Sprintf(analystRole, ""),
		User:        fmt.Sprintf("Search for hailstorm events between %s and %s%s.\n\n", start, end, scope) + eventFields,
		Temperature: monitorTemperature,
		JSON:        true,
	}
}

func languageName(code string) string {
	if name, ok := languages[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return languages[defaultLanguage]
}

func periodPrompt(start, end, language string) domain.Prompt {
	user := fmt.Sprintf(`You are a meteorology expert. Research and list hailstorm events that occurred between %s and %s.

For each event found, provide:
- Exact date of the event
- Location (city, state/province, country)
- Brief description (hail size, duration, damage)
- Severity (light, moderate, severe, extreme)
- Source of the information (if available)

Answer in %s using this JSON format:
{
  "results": [
    {
      "date": "YYYY-MM-DD",
      "location": "City, State, Country",
      "description": "Event description",
      "severity": "Severity",
      "source": "Source"
    }
  ],
  "summary": "Overall summary of the events found in the period"
}

If no specific events are found, describe the weather patterns and hail-prone regions for the requested period.`, start, end, languageName(language))

	return domain.Prompt{
		System:      "You are an assistant specialized in meteorology and extreme weather events, focused on hailstorms.",
		User:        user,
		Temperature: periodTemperature,
		JSON:        true,
	}
}
