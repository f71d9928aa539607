package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

// ErrUnparseable is returned when a response cannot be coerced into JSON.
var ErrUnparseable = errors.New("unparseable model response")

// ParseReports decodes a model response into hail reports. The response may
// be a bare array or an object wrapping the array under "events".
func ParseReports(text string) ([]domain.Report, error) {
	raw, err := normalizeJSON(text)
	if err != nil {
		return nil, err
	}

	var reports []domain.Report
	if err := json.Unmarshal(raw, &reports); err == nil {
		return reports, nil
	}

	var wrapped struct {
		Events *[]domain.Report `json:"events"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	if wrapped.Events == nil {
		return nil, fmt.Errorf("%w: expected an array of events", ErrUnparseable)
	}
	return *wrapped.Events, nil
}

// ParsePeriodSearch decodes a period search response. Missing fields become
// an empty result list and an empty summary.
func ParsePeriodSearch(text string) (domain.PeriodSearch, error) {
	raw, err := normalizeJSON(text)
	if err != nil {
		return domain.PeriodSearch{}, err
	}

	var out domain.PeriodSearch
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.PeriodSearch{}, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	if out.Results == nil {
		out.Results = []domain.SearchResult{}
	}
	return out, nil
}

// normalizeJSON turns model output into strict JSON: code fences are
// stripped, then json-repair and finally hjson get a chance to fix it.
func normalizeJSON(text string) ([]byte, error) {
	s := stripFences(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnparseable)
	}
	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	if repaired, err := jsonrepair.RepairJSON(s); err == nil && json.Valid([]byte(repaired)) {
		return []byte(repaired), nil
	}

	var v any
	if err := hjson.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	return b, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
