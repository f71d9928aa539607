package estimate

import (
	"fmt"
	"strings"
)

// Variant selects the roof formula set.
type Variant string

const (
	VariantAdvanced Variant = "advanced"
	VariantBasic    Variant = "basic"
)

// Severity classifies how badly a roof was damaged.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityTotal    Severity = "total"
)

// Complexity describes roof shape.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// RoofAccess describes how hard the roof is to reach.
type RoofAccess string

const (
	RoofAccessEasy      RoofAccess = "easy"
	RoofAccessModerate  RoofAccess = "moderate"
	RoofAccessDifficult RoofAccess = "difficult"
)

// RoofType is the roofing material.
type RoofType string

const (
	RoofAsphaltShingles       RoofType = "asphalt-shingles"
	RoofArchitecturalShingles RoofType = "architectural-shingles"
	RoofMetal                 RoofType = "metal-roofing"
	RoofTile                  RoofType = "tile-roofing"
	RoofSlate                 RoofType = "slate-roofing"
	RoofTPO                   RoofType = "tpo-membrane"
	RoofEPDM                  RoofType = "epdm-rubber"
)

// Component is a roof part that carries its own repair surcharge.
type Component string

const (
	ComponentUnderlayment Component = "underlayment"
	ComponentGutters      Component = "gutters"
	ComponentVents        Component = "vents"
	ComponentFlashing     Component = "flashing"
	ComponentRidgeCap     Component = "ridge_cap"
	ComponentValley       Component = "valley"
	ComponentChimney      Component = "chimney"
	ComponentSkylight     Component = "skylight"
	ComponentDecking      Component = "decking"
	ComponentSoffitFascia Component = "soffit_fascia"
)

// DentSize is the typical diameter class of the dents on a vehicle.
type DentSize string

const (
	DentSmall     DentSize = "small"
	DentMedium    DentSize = "medium"
	DentLarge     DentSize = "large"
	DentOversized DentSize = "oversized"
)

// DentDepth is how deep the dents are.
type DentDepth string

const (
	DepthShallow  DentDepth = "shallow"
	DepthModerate DentDepth = "moderate"
	DepthDeep     DentDepth = "deep"
)

// PanelAccess is how hard it is to reach the back of a panel.
type PanelAccess string

const (
	PanelAccessEasy      PanelAccess = "easy"
	PanelAccessModerate  PanelAccess = "moderate"
	PanelAccessDifficult PanelAccess = "difficult"
	PanelAccessExtreme   PanelAccess = "extreme"
)

// Panel names one of the twelve vehicle body panels.
type Panel string

const (
	PanelHood             Panel = "hood"
	PanelRoof             Panel = "roof"
	PanelFrontLeftDoor    Panel = "front_left_door"
	PanelFrontRightDoor   Panel = "front_right_door"
	PanelRearLeftDoor     Panel = "rear_left_door"
	PanelRearRightDoor    Panel = "rear_right_door"
	PanelFrontLeftFender  Panel = "front_left_fender"
	PanelFrontRightFender Panel = "front_right_fender"
	PanelRearLeftQuarter  Panel = "rear_left_quarter"
	PanelRearRightQuarter Panel = "rear_right_quarter"
	PanelTrunk            Panel = "trunk"
	PanelBumpers          Panel = "bumpers"
)

// Value sets, in display order.
var (
	Variants     = []Variant{VariantAdvanced, VariantBasic}
	Severities   = []Severity{SeverityMinor, SeverityModerate, SeveritySevere, SeverityTotal}
	Complexities = []Complexity{ComplexitySimple, ComplexityModerate, ComplexityComplex}
	RoofAccesses = []RoofAccess{RoofAccessEasy, RoofAccessModerate, RoofAccessDifficult}
	RoofTypes    = []RoofType{
		RoofAsphaltShingles, RoofArchitecturalShingles, RoofMetal, RoofTile,
		RoofSlate, RoofTPO, RoofEPDM,
	}
	Components = []Component{
		ComponentUnderlayment, ComponentGutters, ComponentVents, ComponentFlashing,
		ComponentRidgeCap, ComponentValley, ComponentChimney, ComponentSkylight,
		ComponentDecking, ComponentSoffitFascia,
	}
	DentSizes     = []DentSize{DentSmall, DentMedium, DentLarge, DentOversized}
	DentDepths    = []DentDepth{DepthShallow, DepthModerate, DepthDeep}
	PanelAccesses = []PanelAccess{PanelAccessEasy, PanelAccessModerate, PanelAccessDifficult, PanelAccessExtreme}
	Panels        = []Panel{
		PanelHood, PanelRoof,
		PanelFrontLeftDoor, PanelFrontRightDoor, PanelRearLeftDoor, PanelRearRightDoor,
		PanelFrontLeftFender, PanelFrontRightFender,
		PanelRearLeftQuarter, PanelRearRightQuarter,
		PanelTrunk, PanelBumpers,
	}
)

func ParseVariant(s string) (Variant, error)         { return parseEnum("variant", s, "", Variants) }
func ParseSeverity(s string) (Severity, error)       { return parseEnum("severity", s, "", Severities) }
func ParseComplexity(s string) (Complexity, error)   { return parseEnum("complexity", s, "", Complexities) }
func ParseRoofAccess(s string) (RoofAccess, error)   { return parseEnum("access", s, "", RoofAccesses) }
func ParseRoofType(s string) (RoofType, error)       { return parseEnum("roof_type", s, "", RoofTypes) }
func ParseComponent(s string) (Component, error)     { return parseEnum("component", s, "", Components) }
func ParseDentSize(s string) (DentSize, error)       { return parseEnum("dent_size", s, "", DentSizes) }
func ParseDentDepth(s string) (DentDepth, error)     { return parseEnum("dent_depth", s, "", DentDepths) }
func ParsePanelAccess(s string) (PanelAccess, error) { return parseEnum("access", s, "", PanelAccesses) }
func ParsePanel(s string) (Panel, error)             { return parseEnum("panel", s, "", Panels) }

// parseEnum matches raw case-insensitively against valid. An empty raw value
// yields def, or ErrUnknownValue when def is empty too.
func parseEnum[T ~string](field, raw string, def T, valid []T) (T, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		if def == "" {
			return "", fmt.Errorf("%w: %s is empty", ErrUnknownValue, field)
		}
		return def, nil
	}
	for _, v := range valid {
		if string(v) == raw {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrUnknownValue, field, raw)
}
