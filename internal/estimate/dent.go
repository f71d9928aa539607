package estimate

import (
	"fmt"
	"math"
)

// AutoRequest is the raw vehicle dent estimate form.
type AutoRequest struct {
	Panels   map[string]Number `json:"panels"`
	Size     string            `json:"dent_size"`
	Depth    string            `json:"dent_depth"`
	Access   string            `json:"access"`
	Paint    bool              `json:"paint_damage"`
	Aluminum bool              `json:"aluminum_panels"`
}

// AutoInput is a validated, normalized dent request.
type AutoInput struct {
	Panels   map[Panel]int
	Size     DentSize
	Depth    DentDepth
	Access   PanelAccess
	Paint    bool
	Aluminum bool
}

// AutoEstimate is the itemized result of a dent repair estimate.
type AutoEstimate struct {
	TotalDents    int     `json:"total_dents"`
	DamagedPanels int     `json:"damaged_panels"`
	UnitCost      float64 `json:"unit_cost"`
	PDR           float64 `json:"pdr_cost"`
	Paint         float64 `json:"paint_cost"`
	LaborHours    int     `json:"labor_hours"`
	Total         float64 `json:"total_cost"`
	Days          int     `json:"days"`
	TimeEstimate  string  `json:"time_estimate"`
	Deductible    float64 `json:"insurance_deductible"`
	OutOfPocket   float64 `json:"out_of_pocket"`
}

// Validate is a no-op: every panel count legitimately starts at zero.
func (r AutoRequest) Validate() error { return nil }

// Normalize converts the raw form into typed input. Panel names must be known.
func (r AutoRequest) Normalize() (AutoInput, error) {
	in := AutoInput{
		Panels:   make(map[Panel]int, len(Panels)),
		Paint:    r.Paint,
		Aluminum: r.Aluminum,
	}
	for name, n := range r.Panels {
		p, err := ParsePanel(name)
		if err != nil {
			return AutoInput{}, err
		}
		if err := checkLimit("panels."+name, n.Float()); err != nil {
			return AutoInput{}, err
		}
		in.Panels[p] = n.Int()
	}

	var err error
	if in.Size, err = parseEnum("dent_size", r.Size, DentMedium, DentSizes); err != nil {
		return AutoInput{}, err
	}
	if in.Depth, err = parseEnum("dent_depth", r.Depth, DepthModerate, DentDepths); err != nil {
		return AutoInput{}, err
	}
	if in.Access, err = parseEnum("access", r.Access, PanelAccessModerate, PanelAccesses); err != nil {
		return AutoInput{}, err
	}
	return in, nil
}

// TotalDents sums the per-panel counts.
func (in AutoInput) TotalDents() int {
	total := 0
	for _, p := range Panels {
		total += in.Panels[p]
	}
	return total
}

// DamagedPanels counts panels with at least one dent.
func (in AutoInput) DamagedPanels() int {
	n := 0
	for _, p := range Panels {
		if in.Panels[p] > 0 {
			n++
		}
	}
	return n
}

// DentUnitCost returns the per-dent price before volume discounts.
func DentUnitCost(in AutoInput, c *Catalog) float64 {
	d := c.Dent
	unit := d.SizeCost[in.Size] * d.Depth[in.Depth] * d.Access[in.Access]
	if in.Aluminum {
		unit *= d.AluminumFactor
	}
	return unit
}

// TieredCost prices count dents at unit cost through the volume tiers.
func TieredCost(count int, unit float64, tiers []Tier) float64 {
	var cost float64
	priced := 0
	for _, t := range tiers {
		if priced >= count {
			break
		}
		end := count
		if t.UpTo > 0 && t.UpTo < count {
			end = t.UpTo
		}
		cost += float64(end-priced) * unit * t.Rate
		priced = end
	}
	return cost
}

// CalculateAuto prices a normalized dent repair input.
func CalculateAuto(in AutoInput, c *Catalog) (AutoEstimate, error) {
	d := c.Dent
	dents := in.TotalDents()
	panels := in.DamagedPanels()
	unit := DentUnitCost(in, c)
	pdr := TieredCost(dents, unit, d.Tiers)

	var paint float64
	hours := int(math.Ceil(float64(dents) / float64(d.DentsPerHour)))
	if in.Paint {
		paint = float64(panels) * d.PaintPerPanel
		hours += d.PaintHours
	}

	days := int(math.Ceil(float64(hours) / float64(d.HoursPerDay)))
	if in.Paint {
		days += d.PaintCureDays
	}
	label := fmt.Sprintf("%d days", days)
	if days == 1 {
		label = "1 day"
	}

	total := math.Round(pdr + paint)
	if err := checkFinite(map[string]float64{"unit_cost": unit, "pdr": pdr, "total": total}); err != nil {
		return AutoEstimate{}, err
	}
	return AutoEstimate{
		TotalDents:    dents,
		DamagedPanels: panels,
		UnitCost:      roundTo(unit, 2),
		PDR:           math.Round(pdr),
		Paint:         math.Round(paint),
		LaborHours:    hours,
		Total:         total,
		Days:          days,
		TimeEstimate:  label,
		Deductible:    d.Deductible,
		OutOfPocket:   math.Min(total, d.Deductible),
	}, nil
}
