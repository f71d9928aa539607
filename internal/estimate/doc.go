// Package estimate prices hail damage repairs for roofs and vehicles.
//
// # Flow
//
// Both calculators share one shape:
//
//	raw request → Validate (required fields) → Normalize (typed input)
//	→ base quantity → multipliers → surcharges → buckets → derived figures
//
// Requests carry [Number] fields so a form that was never filled in can be
// told apart from an explicit zero. Validation runs on the raw request;
// normalization then clamps negatives to zero and fills form defaults.
//
// # Roof
//
// Area is length × width corrected for pitch and scaled by roof shape:
//
//	advanced: round(L × W × sqrt(1 + (pitch/12)²) × complexity)
//	basic:    round(L × W × (1 + pitch/12 × 0.5))
//
// One "square" is 100 sq ft. Materials are priced per square by roof type,
// scaled by severity, then damaged components are added on top. Labor is a
// multiple of materials that grows with pitch, stories, shape and access.
//
// Insurance figures:
//
//	RCV        = total
//	ACV        = RCV × (1 − min(age × 5%, 50%))
//	deductible = round(RCV × 15 × 1%)
//
// # Dent (paintless dent repair)
//
// The per-dent price is size × depth × access (× aluminum). Volume pricing
// applies per dent: 1-10 at 100%, 11-30 at 90%, 31-50 at 80%, 51+ at 70%.
//
// # Rounding
//
// Intermediate values are never rounded. Money fields are rounded to whole
// units when the result is built.
package estimate
