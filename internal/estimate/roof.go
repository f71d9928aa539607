package estimate

import (
	"fmt"
	"math"
)

// Roof form defaults applied when a field was left empty.
const (
	defaultPitch   = 4
	defaultStories = 1
)

// RoofRequest is the raw roof estimate form.
type RoofRequest struct {
	Length  Number `json:"length"`
	Width   Number `json:"width"`
	Pitch   Number `json:"pitch"`
	Stories Number `json:"stories"`

	Complexity string `json:"complexity"`
	Access     string `json:"access"`
	RoofType   string `json:"roof_type"`
	Severity   string `json:"severity"`

	// AffectedArea overrides the computed roof area when set.
	AffectedArea Number `json:"affected_area"`

	// RoofAge comes from the property record; AssessedAge from the damage
	// inspection. RoofAge wins when both are set.
	RoofAge     Number `json:"roof_age"`
	AssessedAge Number `json:"assessed_age"`

	Damaged []string `json:"damaged_components"`
}

// RoofInput is a validated, normalized roof request.
type RoofInput struct {
	Length       float64
	Width        float64
	Pitch        float64
	Stories      float64
	Complexity   Complexity
	Access       RoofAccess
	RoofType     RoofType
	Severity     Severity
	AffectedArea float64
	RoofAge      float64
	Damaged      []Component
}

// Timeline is a repair duration range in days.
type Timeline struct {
	MinDays int    `json:"min_days"`
	MaxDays int    `json:"max_days"`
	Label   string `json:"label"`
}

// RoofEstimate is the itemized result of a roof estimate.
type RoofEstimate struct {
	Variant         Variant  `json:"variant"`
	RoofArea        float64  `json:"roof_area_sqft"`
	AffectedArea    float64  `json:"affected_area_sqft"`
	Squares         float64  `json:"squares"`
	LaborMultiplier float64  `json:"labor_multiplier"`
	Materials       float64  `json:"materials_cost"`
	Labor           float64  `json:"labor_cost"`
	Disposal        float64  `json:"disposal_cost"`
	Permits         float64  `json:"permits_cost"`
	Overhead        float64  `json:"overhead_profit"`
	Contingency     float64  `json:"contingency"`
	Total           float64  `json:"total_cost"`
	RCV             float64  `json:"rcv_value"`
	ACV             float64  `json:"acv_value"`
	Depreciation    float64  `json:"depreciation_rate"`
	Deductible      float64  `json:"deductible"`
	Insurance       float64  `json:"insurance_estimate"`
	Timeline        Timeline `json:"timeline"`
	Warranty        string   `json:"warranty"`
}

// Validate reports fields that must be provided before an estimate can run.
func (r RoofRequest) Validate() error {
	var missing []string
	if !r.Length.Provided {
		missing = append(missing, "length")
	}
	if !r.Width.Provided {
		missing = append(missing, "width")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingField, missing)
	}
	return nil
}

// Normalize converts the raw form into typed input. Empty enum fields take
// the form defaults; unrecognized values fail with ErrUnknownValue.
func (r RoofRequest) Normalize() (RoofInput, error) {
	in := RoofInput{
		Length:       r.Length.Float(),
		Width:        r.Width.Float(),
		Pitch:        r.Pitch.Or(defaultPitch),
		Stories:      r.Stories.Or(defaultStories),
		AffectedArea: r.AffectedArea.Float(),
		RoofAge:      r.RoofAge.Float(),
	}
	if in.RoofAge == 0 {
		in.RoofAge = r.AssessedAge.Float()
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"length", in.Length},
		{"width", in.Width},
		{"pitch", in.Pitch},
		{"stories", in.Stories},
		{"affected_area", in.AffectedArea},
		{"roof_age", in.RoofAge},
	} {
		if err := checkLimit(f.name, f.value); err != nil {
			return RoofInput{}, err
		}
	}

	var err error
	if in.Complexity, err = parseEnum("complexity", r.Complexity, ComplexityModerate, Complexities); err != nil {
		return RoofInput{}, err
	}
	if in.Access, err = parseEnum("access", r.Access, RoofAccessModerate, RoofAccesses); err != nil {
		return RoofInput{}, err
	}
	if in.RoofType, err = parseEnum("roof_type", r.RoofType, RoofAsphaltShingles, RoofTypes); err != nil {
		return RoofInput{}, err
	}
	if in.Severity, err = parseEnum("severity", r.Severity, SeverityModerate, Severities); err != nil {
		return RoofInput{}, err
	}

	seen := make(map[Component]bool, len(r.Damaged))
	for _, raw := range r.Damaged {
		c, err := ParseComponent(raw)
		if err != nil {
			return RoofInput{}, err
		}
		if !seen[c] {
			seen[c] = true
			in.Damaged = append(in.Damaged, c)
		}
	}
	return in, nil
}

// RoofArea returns the pitch- and shape-corrected roof area in whole square feet.
func RoofArea(in RoofInput, c *Catalog, v Variant) float64 {
	base := in.Length * in.Width
	if v == VariantBasic {
		return math.Round(base * (1 + in.Pitch/12*0.5))
	}
	slope := math.Sqrt(1 + math.Pow(in.Pitch/12, 2))
	return math.Round(base * slope * c.Roof.ComplexityArea[in.Complexity])
}

// LaborMultiplier returns the share of materials charged as labor for the
// advanced formula.
func LaborMultiplier(in RoofInput, c *Catalog) float64 {
	r := c.Roof
	m := r.LaborBase
	if in.Pitch >= 8 {
		m += r.SteepLabor
	}
	if in.Pitch >= 10 {
		m += r.VerySteepLabor
	}
	if in.Stories >= 2 {
		m += r.TwoStoryLabor
	}
	if in.Stories >= 3 {
		m += r.ThreeStoryLabor
	}
	return m + r.ComplexityLabor[in.Complexity] + r.AccessLabor[in.Access]
}

// Depreciation returns the age-based depreciation rate, capped by the catalog.
func Depreciation(age float64, c *Catalog) float64 {
	if age <= 0 {
		return 0
	}
	return math.Min(age*c.Roof.DepreciationPerYear, c.Roof.MaxDepreciation)
}

// CalculateRoof prices a normalized roof input with the given formula variant.
func CalculateRoof(in RoofInput, c *Catalog, v Variant) (RoofEstimate, error) {
	rates := c.Roof.Advanced
	if v == VariantBasic {
		rates = c.Roof.Basic
	}

	area := RoofArea(in, c, v)
	affected := in.AffectedArea
	if affected == 0 {
		affected = area
	}
	squares := affected / 100

	materials := squares * c.Roof.MaterialPerSquare[in.RoofType] * rates.Severity[in.Severity]

	var laborMult float64
	if v == VariantBasic {
		laborMult = c.Roof.BasicLaborRate
	} else {
		for _, comp := range in.Damaged {
			s := c.Roof.Components[comp]
			materials += s.Flat + s.PerSqFt*affected
		}
		laborMult = LaborMultiplier(in, c)
	}

	labor := materials * laborMult
	disposal := squares * rates.DisposalPerSquare
	permits := rates.PermitBase
	if affected > c.Roof.PermitAreaThreshold {
		permits = rates.PermitLarge
	}

	subtotal := materials + labor + disposal + permits
	overhead := subtotal * rates.OverheadRate
	contingency := subtotal * rates.ContingencyRate
	total := subtotal + overhead + contingency

	rcv := total
	depreciation := Depreciation(in.RoofAge, c)
	acv := rcv * (1 - depreciation)
	deductible := math.Round(total * c.Roof.HomeValueMultiple * c.Roof.DeductibleRate)
	insurance := math.Max(rcv-deductible, 0)
	if err := checkFinite(map[string]float64{"roof_area": area, "total": total, "deductible": deductible}); err != nil {
		return RoofEstimate{}, err
	}
	if affected/c.Roof.SqFtPerDay > MaxInput {
		return RoofEstimate{}, fmt.Errorf("%w: affected area needs more than %d working days", ErrOutOfRange, MaxInput)
	}

	return RoofEstimate{
		Variant:         v,
		RoofArea:        area,
		AffectedArea:    affected,
		Squares:         roundTo(squares, 2),
		LaborMultiplier: roundTo(laborMult, 2),
		Materials:       math.Round(materials),
		Labor:           math.Round(labor),
		Disposal:        math.Round(disposal),
		Permits:         permits,
		Overhead:        math.Round(overhead),
		Contingency:     math.Round(contingency),
		Total:           math.Round(total),
		RCV:             math.Round(rcv),
		ACV:             math.Round(acv),
		Depreciation:    depreciation,
		Deductible:      deductible,
		Insurance:       math.Round(insurance),
		Timeline:        roofTimeline(in, affected, c),
		Warranty:        c.Roof.Warranty[in.RoofType],
	}, nil
}

func roofTimeline(in RoofInput, affected float64, c *Catalog) Timeline {
	days := int(math.Ceil(affected / c.Roof.SqFtPerDay))
	switch in.Severity {
	case SeveritySevere:
		days += 3
	case SeverityTotal:
		days += 5
	}
	if in.Complexity == ComplexityComplex {
		days += 2
	}
	if in.Pitch >= 8 {
		days++
	}

	// Every job takes at least a day; a one-day job is quoted as 1-2 days.
	if days <= 1 {
		return Timeline{MinDays: 1, MaxDays: 2, Label: "1-2 days"}
	}
	return Timeline{MinDays: days, MaxDays: days + 2, Label: fmt.Sprintf("%d-%d days", days, days+2)}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
