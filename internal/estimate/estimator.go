package estimate

import "fmt"

// Estimator runs both calculators against one validated catalog.
type Estimator struct {
	catalog *Catalog
	variant Variant
}

// NewEstimator validates the catalog and returns an Estimator whose roof
// formula defaults to variant.
func NewEstimator(c *Catalog, variant Variant) (*Estimator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if variant == "" {
		variant = VariantAdvanced
	}
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	return &Estimator{catalog: c, variant: variant}, nil
}

// Catalog returns the shared catalog. Callers must not modify it.
func (e *Estimator) Catalog() *Catalog { return e.catalog }

// DefaultVariant returns the roof formula used when a request names none.
func (e *Estimator) DefaultVariant() Variant { return e.variant }

// Roof validates, normalizes and prices a roof request. An empty variant uses
// the estimator default.
func (e *Estimator) Roof(req RoofRequest, variant string) (RoofEstimate, error) {
	v, err := parseEnum("variant", variant, e.variant, Variants)
	if err != nil {
		return RoofEstimate{}, err
	}
	if err := req.Validate(); err != nil {
		return RoofEstimate{}, err
	}
	in, err := req.Normalize()
	if err != nil {
		return RoofEstimate{}, fmt.Errorf("normalize roof request: %w", err)
	}
	return CalculateRoof(in, e.catalog, v)
}

// Auto validates, normalizes and prices a dent repair request.
func (e *Estimator) Auto(req AutoRequest) (AutoEstimate, error) {
	if err := req.Validate(); err != nil {
		return AutoEstimate{}, err
	}
	in, err := req.Normalize()
	if err != nil {
		return AutoEstimate{}, fmt.Errorf("normalize auto request: %w", err)
	}
	return CalculateAuto(in, e.catalog)
}
