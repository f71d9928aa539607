package estimate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxInput is the largest accepted value for any measurement or count.
const MaxInput = 1_000_000

// Number is a leniently decoded numeric form field. It accepts JSON numbers,
// numeric strings, empty strings and null. Anything unparseable decodes to the
// zero Number, which reads as "not provided" rather than failing the request.
type Number struct {
	Value    float64
	Provided bool
}

// N returns a provided Number.
func N(v float64) Number {
	return Number{Value: v, Provided: true}
}

// Float returns the value clamped to be non-negative. Unprovided numbers are 0.
func (n Number) Float() float64 {
	if !n.Provided || n.Value < 0 {
		return 0
	}
	return n.Value
}

// Or returns def when the number was not provided, else Float.
func (n Number) Or(def float64) float64 {
	if !n.Provided {
		return def
	}
	return n.Float()
}

// Int truncates Float toward zero, saturating at MaxInput.
func (n Number) Int() int {
	return int(math.Floor(math.Min(n.Float(), MaxInput)))
}

// checkLimit rejects values above MaxInput.
func checkLimit(field string, v float64) error {
	if v > MaxInput {
		return fmt.Errorf("%w: %s exceeds %d", ErrOutOfRange, field, MaxInput)
	}
	return nil
}

// checkFinite rejects a calculation whose named results overflowed.
func checkFinite(results map[string]float64) error {
	for name, v := range results {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: %s is not finite", ErrOutOfRange, name)
		}
	}
	return nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}

	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{Value: v, Provided: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Provided {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
