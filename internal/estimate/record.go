package estimate

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrRecordNotFound is returned when an archived estimate does not exist.
var ErrRecordNotFound = errors.New("estimate record not found")

// Kinds of archived estimates.
const (
	KindRoof = "roof"
	KindAuto = "auto"
)

// Record is an archived estimate: the request as received and the computed
// result, both kept as JSON.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Variant   string          `json:"variant,omitempty"`
	TotalCost float64         `json:"total_cost"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
