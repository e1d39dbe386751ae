package maintenance

import (
	"strings"
	"testing"
	"time"

	"github.com/rodamarket/backend/internal/types"
)

var evalNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func monthsAgo(n int) *time.Time {
	t := evalNow.AddDate(0, -n, 0)
	return &t
}

func daysAgo(n int) *time.Time {
	t := evalNow.AddDate(0, 0, -n)
	return &t
}

// freshVehicle has every category recently serviced so nothing is pending.
func freshVehicle() *types.Vehicle {
	return &types.Vehicle{
		Odometer:                  10000,
		UsageProfile:              types.UsageProfileDaily,
		OilType:                   types.OilTypeSynthetic,
		UsageIntensity:            types.UsageIntensityNormal,
		LastOilChangeAt:           monthsAgo(1),
		LastOilChangeOdometer:     9500,
		LastPreventiveAt:          monthsAgo(1),
		LastPreventiveOdometer:    9500,
		LastFilterChangeAt:        monthsAgo(1),
		LastFilterChangeOdometer:  9500,
		LastBrakeServiceAt:        monthsAgo(1),
		LastBrakeServiceOdometer:  9500,
		LastBrakeFluidAt:          monthsAgo(1),
		LastBrakeFluidOdometer:    9500,
		LastBatteryChangeAt:       monthsAgo(1),
		LastBatteryChangeOdometer: 9500,
		LastTireCheckAt:           daysAgo(5),
	}
}

func findRecommendation(recs []Recommendation, cat Category) (Recommendation, bool) {
	for _, r := range recs {
		if r.Category == cat {
			return r, true
		}
	}
	return Recommendation{}, false
}

func TestEvaluate_FreshVehicleHasNothingPending(t *testing.T) {
	recs := Evaluate(freshVehicle(), evalNow)
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d: %+v", len(recs), recs)
	}
}

func TestEvaluate_NeverPerformedAlwaysPending(t *testing.T) {
	v := freshVehicle()
	v.LastOilChangeAt = nil
	v.Odometer = 100 // low odometer must not matter

	recs := Evaluate(v, evalNow)
	rec, ok := findRecommendation(recs, CategoryOilChange)
	if !ok {
		t.Fatalf("expected oil change recommendation for never-performed category")
	}
	if rec.Urgency != UrgencyUrgent {
		t.Fatalf("expected urgent, got %q", rec.Urgency)
	}
	if !rec.FirstTime {
		t.Fatalf("expected first-time flag")
	}
	if !strings.Contains(rec.Message, "(FIRST TIME)") {
		t.Fatalf("expected first-time marker in message, got %q", rec.Message)
	}
	if rec.RemainingKm != 0 || rec.RemainingMonths != 0 {
		t.Fatalf("expected zero remaining for first-time, got km=%d months=%d", rec.RemainingKm, rec.RemainingMonths)
	}
}

func TestEvaluate_FirstTimeUrgencyOverrides(t *testing.T) {
	v := freshVehicle()
	v.LastFilterChangeAt = nil
	v.LastBatteryChangeAt = nil
	v.LastTireCheckAt = nil

	recs := Evaluate(v, evalNow)

	filters, ok := findRecommendation(recs, CategoryFilters)
	if !ok || filters.Urgency != UrgencyImportant {
		t.Fatalf("expected important first-time filters, got %+v (found=%v)", filters, ok)
	}
	battery, ok := findRecommendation(recs, CategoryBattery)
	if !ok || battery.Urgency != UrgencyNormal {
		t.Fatalf("expected normal first-time battery, got %+v (found=%v)", battery, ok)
	}
	tires, ok := findRecommendation(recs, CategoryTires)
	if !ok || tires.Urgency != UrgencyNormal {
		t.Fatalf("expected normal first-time tires, got %+v (found=%v)", tires, ok)
	}
}

func TestEvaluate_ThresholdOrSemantics(t *testing.T) {
	// Distance over threshold, time well under it.
	v := freshVehicle()
	v.Odometer = 21000
	v.LastOilChangeAt = monthsAgo(2)
	v.LastOilChangeOdometer = 10000 // elapsed 11000 >= 10000 (synthetic, normal)

	recs := Evaluate(v, evalNow)
	rec, ok := findRecommendation(recs, CategoryOilChange)
	if !ok {
		t.Fatalf("expected oil change pending by distance alone")
	}
	if rec.Urgency != UrgencyImportant {
		t.Fatalf("distance-only overrun should be important, got %q", rec.Urgency)
	}

	// Time over threshold, distance well under it.
	v2 := freshVehicle()
	v2.Odometer = 10000
	v2.LastOilChangeAt = monthsAgo(13)
	v2.LastOilChangeOdometer = 9900

	recs2 := Evaluate(v2, evalNow)
	rec2, ok := findRecommendation(recs2, CategoryOilChange)
	if !ok {
		t.Fatalf("expected oil change pending by time alone")
	}
	if rec2.Urgency != UrgencyUrgent {
		t.Fatalf("time overrun on oil should be urgent, got %q", rec2.Urgency)
	}
}

func TestEvaluate_CityIntensityTightensOilThreshold(t *testing.T) {
	// Elapsed 8500 km: under the normal synthetic threshold (10000) but at
	// the city one (8000).
	base := freshVehicle()
	base.Odometer = 18500
	base.LastOilChangeAt = monthsAgo(2)
	base.LastOilChangeOdometer = 10000
	// Keep the other distance categories quiet.
	base.LastPreventiveOdometer = 18000
	base.LastFilterChangeOdometer = 18000
	base.LastBrakeServiceOdometer = 18000
	base.LastBrakeFluidOdometer = 18000

	if _, ok := findRecommendation(Evaluate(base, evalNow), CategoryOilChange); ok {
		t.Fatalf("normal intensity should not be pending at 8500 km elapsed")
	}

	base.UsageIntensity = types.UsageIntensityStopAndGo
	if _, ok := findRecommendation(Evaluate(base, evalNow), CategoryOilChange); !ok {
		t.Fatalf("stop-and-go intensity should be pending at 8500 km elapsed")
	}
}

func TestEvaluate_TireCheckTimeOnly(t *testing.T) {
	v := freshVehicle()
	v.LastTireCheckAt = daysAgo(15)

	recs := Evaluate(v, evalNow)
	rec, ok := findRecommendation(recs, CategoryTires)
	if !ok {
		t.Fatalf("expected tire check pending after 15 days on daily profile")
	}
	if rec.Urgency != UrgencyNormal {
		t.Fatalf("expected normal urgency, got %q", rec.Urgency)
	}

	// Occasional cadence is 30 days, so the same vehicle state is quiet.
	v.UsageProfile = types.UsageProfileOccasional
	if _, ok := findRecommendation(Evaluate(v, evalNow), CategoryTires); ok {
		t.Fatalf("occasional profile should not be pending at 15 days")
	}
}

func TestEvaluate_SignificantOverrunRaisesBatteryUrgency(t *testing.T) {
	v := freshVehicle()
	v.LastBatteryChangeAt = monthsAgo(73) // threshold 36, elapsed >= 2x

	recs := Evaluate(v, evalNow)
	rec, ok := findRecommendation(recs, CategoryBattery)
	if !ok {
		t.Fatalf("expected battery pending")
	}
	if rec.Urgency != UrgencyImportant {
		t.Fatalf("expected important for significantly overdue battery, got %q", rec.Urgency)
	}
}

func TestEvaluate_DeterministicOrdering(t *testing.T) {
	v := &types.Vehicle{
		Odometer:       12000,
		UsageProfile:   types.UsageProfileDaily,
		OilType:        types.OilTypeSynthetic,
		UsageIntensity: types.UsageIntensityNormal,
		// every category never performed
	}
	want := []Category{
		CategoryOilChange,
		CategoryPreventive,
		CategoryFilters,
		CategoryBrakes,
		CategoryBrakeFluid,
		CategoryBattery,
		CategoryTires,
	}
	for run := 0; run < 3; run++ {
		recs := Evaluate(v, evalNow)
		if len(recs) != len(want) {
			t.Fatalf("run %d: expected %d recommendations, got %d", run, len(want), len(recs))
		}
		for i, cat := range want {
			if recs[i].Category != cat {
				t.Fatalf("run %d: position %d expected %q, got %q", run, i, cat, recs[i].Category)
			}
		}
	}
}

func TestEvaluate_OccasionalProfileSubset(t *testing.T) {
	v := &types.Vehicle{
		Odometer:     3000,
		UsageProfile: types.UsageProfileOccasional,
		OilType:      types.OilTypeMineral,
	}
	recs := Evaluate(v, evalNow)
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations for occasional profile, got %d", len(recs))
	}
	for _, rec := range recs {
		switch rec.Category {
		case CategoryFilters, CategoryBrakes, CategoryBrakeFluid, CategoryBattery:
			t.Fatalf("category %q must not apply to occasional profile", rec.Category)
		}
	}
}

func TestEvaluate_ExampleScenario(t *testing.T) {
	// daily + synthetic + normal, 12000 km, oil never changed.
	v := freshVehicle()
	v.Odometer = 12000
	v.LastOilChangeAt = nil
	v.LastPreventiveOdometer = 11500
	v.LastFilterChangeOdometer = 11500
	v.LastBrakeServiceOdometer = 11500
	v.LastBrakeFluidOdometer = 11500

	recs := Evaluate(v, evalNow)
	if len(recs) != 1 {
		t.Fatalf("expected exactly the oil change recommendation, got %d: %+v", len(recs), recs)
	}
	rec := recs[0]
	if rec.Category != CategoryOilChange || rec.Urgency != UrgencyUrgent {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
	if !strings.Contains(rec.Message, "(FIRST TIME)") {
		t.Fatalf("expected first-time marker, got %q", rec.Message)
	}
	if rec.RemainingKm != 0 {
		t.Fatalf("expected zero remaining km, got %d", rec.RemainingKm)
	}
}

func TestMonthsBetween_FloorsPartialMonths(t *testing.T) {
	from := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	if got := monthsBetween(from, evalNow); got != 4 {
		t.Fatalf("expected 4 whole months, got %d", got)
	}
	if got := monthsBetween(evalNow, from); got != 0 {
		t.Fatalf("negative span should clamp to 0, got %d", got)
	}
}
