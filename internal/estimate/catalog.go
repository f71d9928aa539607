package estimate

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Surcharge is a flat amount plus an optional amount per affected square foot.
type Surcharge struct {
	Flat    float64 `yaml:"flat" json:"flat"`
	PerSqFt float64 `yaml:"per_sqft" json:"per_sqft"`
}

// Tier is one band of the dent volume discount. UpTo is the last dent count
// (inclusive) priced at Rate; zero means unbounded and must come last.
type Tier struct {
	UpTo int     `yaml:"up_to" json:"up_to"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// RoofRates holds the formula constants that differ between roof variants.
type RoofRates struct {
	Severity          map[Severity]float64 `yaml:"severity" json:"severity"`
	DisposalPerSquare float64              `yaml:"disposal_per_square" json:"disposal_per_square"`
	PermitBase        float64              `yaml:"permit_base" json:"permit_base"`
	PermitLarge       float64              `yaml:"permit_large" json:"permit_large"`
	OverheadRate      float64              `yaml:"overhead_rate" json:"overhead_rate"`
	ContingencyRate   float64              `yaml:"contingency_rate" json:"contingency_rate"`
}

// RoofCatalog prices roof repairs.
type RoofCatalog struct {
	MaterialPerSquare map[RoofType]float64    `yaml:"material_per_square" json:"material_per_square"`
	Warranty          map[RoofType]string     `yaml:"warranty" json:"warranty"`
	ComplexityArea    map[Complexity]float64  `yaml:"complexity_area" json:"complexity_area"`
	ComplexityLabor   map[Complexity]float64  `yaml:"complexity_labor" json:"complexity_labor"`
	AccessLabor       map[RoofAccess]float64  `yaml:"access_labor" json:"access_labor"`
	Components        map[Component]Surcharge `yaml:"components" json:"components"`

	LaborBase       float64 `yaml:"labor_base" json:"labor_base"`
	SteepLabor      float64 `yaml:"steep_labor" json:"steep_labor"`           // pitch >= 8
	VerySteepLabor  float64 `yaml:"very_steep_labor" json:"very_steep_labor"` // pitch >= 10, on top of SteepLabor
	TwoStoryLabor   float64 `yaml:"two_story_labor" json:"two_story_labor"`
	ThreeStoryLabor float64 `yaml:"three_story_labor" json:"three_story_labor"`
	BasicLaborRate  float64 `yaml:"basic_labor_rate" json:"basic_labor_rate"`

	PermitAreaThreshold float64 `yaml:"permit_area_threshold" json:"permit_area_threshold"`

	Advanced RoofRates `yaml:"advanced" json:"advanced"`
	Basic    RoofRates `yaml:"basic" json:"basic"`

	DepreciationPerYear float64 `yaml:"depreciation_per_year" json:"depreciation_per_year"`
	MaxDepreciation     float64 `yaml:"max_depreciation" json:"max_depreciation"`
	HomeValueMultiple   float64 `yaml:"home_value_multiple" json:"home_value_multiple"`
	DeductibleRate      float64 `yaml:"deductible_rate" json:"deductible_rate"`

	SqFtPerDay float64 `yaml:"sqft_per_day" json:"sqft_per_day"`
}

// DentCatalog prices paintless dent repair.
type DentCatalog struct {
	SizeCost       map[DentSize]float64    `yaml:"size_cost" json:"size_cost"`
	Depth          map[DentDepth]float64   `yaml:"depth" json:"depth"`
	Access         map[PanelAccess]float64 `yaml:"access" json:"access"`
	AluminumFactor float64                 `yaml:"aluminum_factor" json:"aluminum_factor"`
	Tiers          []Tier                  `yaml:"tiers" json:"tiers"`

	PaintPerPanel float64 `yaml:"paint_per_panel" json:"paint_per_panel"`
	DentsPerHour  int     `yaml:"dents_per_hour" json:"dents_per_hour"`
	PaintHours    int     `yaml:"paint_hours" json:"paint_hours"`
	HoursPerDay   int     `yaml:"hours_per_day" json:"hours_per_day"`
	PaintCureDays int     `yaml:"paint_cure_days" json:"paint_cure_days"`
	Deductible    float64 `yaml:"deductible" json:"deductible"`
}

// Catalog is the full set of unit costs and multipliers. Build it once with
// DefaultCatalog or LoadCatalog and share it read-only.
type Catalog struct {
	Roof RoofCatalog `yaml:"roof" json:"roof"`
	Dent DentCatalog `yaml:"dent" json:"dent"`
}

// DefaultCatalog returns the built-in 2024 price list.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Roof: RoofCatalog{
			MaterialPerSquare: map[RoofType]float64{
				RoofAsphaltShingles:       350,
				RoofArchitecturalShingles: 500,
				RoofMetal:                 800,
				RoofTile:                  1200,
				RoofSlate:                 1500,
				RoofTPO:                   650,
				RoofEPDM:                  550,
			},
			Warranty: map[RoofType]string{
				RoofAsphaltShingles:       "25-30 years manufacturer, 10 years workmanship",
				RoofArchitecturalShingles: "30-50 years manufacturer, 10 years workmanship",
				RoofMetal:                 "40-50 years manufacturer, 15 years workmanship",
				RoofTile:                  "50+ years manufacturer, 15 years workmanship",
				RoofSlate:                 "75-100 years manufacturer, 20 years workmanship",
				RoofTPO:                   "20-30 years manufacturer, 10 years workmanship",
				RoofEPDM:                  "25-30 years manufacturer, 10 years workmanship",
			},
			ComplexityArea: map[Complexity]float64{
				ComplexitySimple:   1.0,
				ComplexityModerate: 1.15,
				ComplexityComplex:  1.35,
			},
			ComplexityLabor: map[Complexity]float64{
				ComplexitySimple:   0,
				ComplexityModerate: 0.10,
				ComplexityComplex:  0.25,
			},
			AccessLabor: map[RoofAccess]float64{
				RoofAccessEasy:      0,
				RoofAccessModerate:  0.10,
				RoofAccessDifficult: 0.25,
			},
			Components: map[Component]Surcharge{
				ComponentUnderlayment: {PerSqFt: 1.75},
				ComponentGutters:      {Flat: 1200},
				ComponentVents:        {Flat: 600},
				ComponentFlashing:     {Flat: 850},
				ComponentRidgeCap:     {Flat: 450},
				ComponentValley:       {Flat: 700},
				ComponentChimney:      {Flat: 1500},
				ComponentSkylight:     {Flat: 800},
				ComponentDecking:      {PerSqFt: 2.50},
				ComponentSoffitFascia: {Flat: 1800},
			},
			LaborBase:           0.65,
			SteepLabor:          0.15,
			VerySteepLabor:      0.25,
			TwoStoryLabor:       0.10,
			ThreeStoryLabor:     0.20,
			BasicLaborRate:      0.60,
			PermitAreaThreshold: 1000,
			Advanced: RoofRates{
				Severity: map[Severity]float64{
					SeverityMinor:    0.4,
					SeverityModerate: 1.0,
					SeveritySevere:   1.8,
					SeverityTotal:    2.5,
				},
				DisposalPerSquare: 85,
				PermitBase:        800,
				PermitLarge:       1200,
				OverheadRate:      0.20,
				ContingencyRate:   0.08,
			},
			Basic: RoofRates{
				Severity: map[Severity]float64{
					SeverityMinor:    0.5,
					SeverityModerate: 1.0,
					SeveritySevere:   1.5,
					SeverityTotal:    2.0,
				},
				DisposalPerSquare: 75,
				PermitBase:        800,
				PermitLarge:       800,
				ContingencyRate:   0.10,
			},
			DepreciationPerYear: 0.05,
			MaxDepreciation:     0.5,
			HomeValueMultiple:   15,
			DeductibleRate:      0.01,
			SqFtPerDay:          800,
		},
		Dent: DentCatalog{
			SizeCost: map[DentSize]float64{
				DentSmall:     75,
				DentMedium:    125,
				DentLarge:     175,
				DentOversized: 250,
			},
			Depth: map[DentDepth]float64{
				DepthShallow:  1.0,
				DepthModerate: 1.3,
				DepthDeep:     1.6,
			},
			Access: map[PanelAccess]float64{
				PanelAccessEasy:      1.0,
				PanelAccessModerate:  1.2,
				PanelAccessDifficult: 1.5,
				PanelAccessExtreme:   2.0,
			},
			AluminumFactor: 1.3,
			Tiers: []Tier{
				{UpTo: 10, Rate: 1.0},
				{UpTo: 30, Rate: 0.9},
				{UpTo: 50, Rate: 0.8},
				{UpTo: 0, Rate: 0.7},
			},
			PaintPerPanel: 350,
			DentsPerHour:  5,
			PaintHours:    4,
			HoursPerDay:   8,
			PaintCureDays: 2,
			Deductible:    500,
		},
	}
}

// LoadCatalog overlays the YAML file at path onto DefaultCatalog and
// validates the result. Keys absent from the file keep their defaults.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c := DefaultCatalog()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every enum value has a price or multiplier and that
// all rates are usable.
func (c *Catalog) Validate() error {
	var errs []error

	errs = append(errs, missingKeys("roof.material_per_square", c.Roof.MaterialPerSquare, RoofTypes)...)
	errs = append(errs, missingKeys("roof.warranty", c.Roof.Warranty, RoofTypes)...)
	errs = append(errs, missingKeys("roof.complexity_area", c.Roof.ComplexityArea, Complexities)...)
	errs = append(errs, missingKeys("roof.complexity_labor", c.Roof.ComplexityLabor, Complexities)...)
	errs = append(errs, missingKeys("roof.access_labor", c.Roof.AccessLabor, RoofAccesses)...)
	errs = append(errs, missingKeys("roof.components", c.Roof.Components, Components)...)
	errs = append(errs, missingKeys("roof.advanced.severity", c.Roof.Advanced.Severity, Severities)...)
	errs = append(errs, missingKeys("roof.basic.severity", c.Roof.Basic.Severity, Severities)...)
	errs = append(errs, missingKeys("dent.size_cost", c.Dent.SizeCost, DentSizes)...)
	errs = append(errs, missingKeys("dent.depth", c.Dent.Depth, DentDepths)...)
	errs = append(errs, missingKeys("dent.access", c.Dent.Access, PanelAccesses)...)

	errs = append(errs, negativeValues("roof.material_per_square", c.Roof.MaterialPerSquare)...)
	errs = append(errs, negativeValues("roof.advanced.severity", c.Roof.Advanced.Severity)...)
	errs = append(errs, negativeValues("roof.basic.severity", c.Roof.Basic.Severity)...)
	errs = append(errs, negativeValues("dent.size_cost", c.Dent.SizeCost)...)
	errs = append(errs, negativeValues("dent.depth", c.Dent.Depth)...)
	errs = append(errs, negativeValues("dent.access", c.Dent.Access)...)
	for comp, s := range c.Roof.Components {
		if s.Flat < 0 || s.PerSqFt < 0 {
			errs = append(errs, fmt.Errorf("roof.components[%s] is negative", comp))
		}
	}

	if c.Roof.MaxDepreciation < 0 || c.Roof.MaxDepreciation > 1 {
		errs = append(errs, errors.New("roof.max_depreciation must be within [0, 1]"))
	}
	if c.Roof.SqFtPerDay <= 0 {
		errs = append(errs, errors.New("roof.sqft_per_day must be positive"))
	}
	if c.Dent.DentsPerHour <= 0 || c.Dent.HoursPerDay <= 0 {
		errs = append(errs, errors.New("dent.dents_per_hour and dent.hours_per_day must be positive"))
	}
	if err := validateTiers(c.Dent.Tiers); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
}

func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return errors.New("dent.tiers is empty")
	}
	prev := 0
	for i, t := range tiers {
		if t.Rate < 0 || t.Rate > 1 {
			return fmt.Errorf("dent.tiers[%d].rate must be within [0, 1]", i)
		}
		last := i == len(tiers)-1
		if t.UpTo == 0 {
			if !last {
				return fmt.Errorf("dent.tiers[%d] is unbounded but not last", i)
			}
			continue
		}
		if t.UpTo <= prev {
			return fmt.Errorf("dent.tiers[%d].up_to must increase", i)
		}
		if last {
			return errors.New("dent.tiers must end with an unbounded tier")
		}
		prev = t.UpTo
	}
	return nil
}

func missingKeys[K comparable, V any](field string, m map[K]V, keys []K) []error {
	var errs []error
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			errs = append(errs, fmt.Errorf("%s has no entry for %v", field, k))
		}
	}
	return errs
}

func negativeValues[K comparable](field string, m map[K]float64) []error {
	var errs []error
	for k, v := range m {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s[%v] is negative", field, k))
		}
	}
	return errs
}
