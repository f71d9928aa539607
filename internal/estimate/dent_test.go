package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuto_FifteenMediumDents(t *testing.T) {
	e := testEstimator(t)

	got, err := e.Auto(AutoRequest{
		Panels: map[string]Number{"hood": N(8), "roof": N(7)},
		Size:   "medium",
		Depth:  "moderate",
		Access: "moderate",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, got.TotalDents)
	assert.Equal(t, 2, got.DamagedPanels)
	assert.InDelta(t, 195.0, got.UnitCost, 1e-9)
	assert.Equal(t, 2828.0, got.PDR)
	assert.Zero(t, got.Paint)
	assert.Equal(t, 2828.0, got.Total)
	assert.Equal(t, 3, got.LaborHours)
	assert.Equal(t, "1 day", got.TimeEstimate)
	assert.Equal(t, 500.0, got.Deductible)
	assert.Equal(t, 500.0, got.OutOfPocket)
}

func TestAuto_PaintAndAluminum(t *testing.T) {
	e := testEstimator(t)

	got, err := e.Auto(AutoRequest{
		Panels: map[string]Number{
			"hood":               N(4),
			"trunk":              N(2),
			"front_left_door":    N(1),
			"rear_right_quarter": N(0),
		},
		Size:     "small",
		Depth:    "shallow",
		Access:   "easy",
		Paint:    true,
		Aluminum: true,
	})
	require.NoError(t, err)

	// 7 dents × 75 × 1.3 (aluminum) = 682.5
	assert.Equal(t, 7, got.TotalDents)
	assert.Equal(t, 3, got.DamagedPanels)
	assert.Equal(t, 683.0, got.PDR)
	assert.Equal(t, 1050.0, got.Paint)
	assert.Equal(t, 1733.0, got.Total)
	assert.Equal(t, 2+4, got.LaborHours)
	assert.Equal(t, 1+2, got.Days)
	assert.Equal(t, "3 days", got.TimeEstimate)
	assert.Equal(t, 500.0, got.OutOfPocket)
}

func TestAuto_NoDents(t *testing.T) {
	e := testEstimator(t)

	got, err := e.Auto(AutoRequest{})
	require.NoError(t, err)

	assert.Zero(t, got.TotalDents)
	assert.Zero(t, got.Total)
	assert.Zero(t, got.OutOfPocket)
	assert.Equal(t, "0 days", got.TimeEstimate)
}

func TestAuto_UnknownValues(t *testing.T) {
	e := testEstimator(t)

	tests := []struct {
		name string
		req  AutoRequest
	}{
		{name: "panel", req: AutoRequest{Panels: map[string]Number{"spoiler": N(2)}}},
		{name: "size", req: AutoRequest{Size: "huge"}},
		{name: "depth", req: AutoRequest{Depth: "bottomless"}},
		{name: "access", req: AutoRequest{Access: "none"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Auto(tt.req)
			require.ErrorIs(t, err, ErrUnknownValue)
		})
	}
}

func TestTieredCost_Breakpoints(t *testing.T) {
	tiers := DefaultCatalog().Dent.Tiers
	const unit = 100.0

	tests := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 100},
		{10, 1000},
		{11, 1090},
		{30, 1000 + 20*90},
		{31, 1000 + 20*90 + 80},
		{50, 1000 + 20*90 + 20*80},
		{51, 1000 + 20*90 + 20*80 + 70},
		{100, 1000 + 20*90 + 20*80 + 50*70},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TieredCost(tt.count, unit, tiers), 1e-9, "count %d", tt.count)
	}
}

func TestTieredCost_MonotonicPiecewiseLinear(t *testing.T) {
	tiers := DefaultCatalog().Dent.Tiers
	const unit = 195.0

	rateAt := func(n int) float64 {
		switch {
		case n <= 10:
			return 1.0
		case n <= 30:
			return 0.9
		case n <= 50:
			return 0.8
		default:
			return 0.7
		}
	}

	prev := 0.0
	for n := 1; n <= 120; n++ {
		cost := TieredCost(n, unit, tiers)
		assert.GreaterOrEqual(t, cost, prev)
		assert.InDelta(t, unit*rateAt(n), cost-prev, 1e-6, "marginal cost of dent %d", n)
		prev = cost
	}
}

func TestDentUnitCost_AllCombinationsPositive(t *testing.T) {
	c := DefaultCatalog()
	for _, s := range DentSizes {
		for _, d := range DentDepths {
			for _, a := range PanelAccesses {
				in := AutoInput{Size: s, Depth: d, Access: a}
				assert.Positive(t, DentUnitCost(in, c), "%s/%s/%s", s, d, a)
			}
		}
	}
}

func TestAuto_RejectsOversizedCounts(t *testing.T) {
	e := testEstimator(t)

	tests := []struct {
		name   string
		panels map[string]Number
	}{
		{name: "one panel beyond int range", panels: map[string]Number{"hood": N(1e19)}},
		{name: "sum beyond int range", panels: map[string]Number{"hood": N(5e18), "roof": N(5e18)}},
		{name: "just over the limit", panels: map[string]Number{"trunk": N(MaxInput + 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Auto(AutoRequest{Panels: tt.panels})
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestAuto_MaxCountsStayNonNegative(t *testing.T) {
	e := testEstimator(t)

	panels := make(map[string]Number, len(Panels))
	for _, p := range Panels {
		panels[string(p)] = N(MaxInput)
	}
	got, err := e.Auto(AutoRequest{Panels: panels, Size: "large", Depth: "deep", Access: "difficult", Paint: true, Aluminum: true})
	require.NoError(t, err)

	assert.Equal(t, len(Panels)*MaxInput, got.TotalDents)
	assert.Positive(t, got.LaborHours)
	assert.Positive(t, got.Days)
	assert.Greater(t, got.Total, 0.0)
}
