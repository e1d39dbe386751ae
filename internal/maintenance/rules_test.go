package maintenance

import (
	"strings"
	"testing"

	"github.com/rodamarket/backend/internal/types"
)

func TestRulesFor_ProfilesDefineDifferentCategories(t *testing.T) {
	daily := RulesFor(types.UsageProfileDaily)
	occasional := RulesFor(types.UsageProfileOccasional)

	wantDaily := []Category{
		CategoryOilChange,
		CategoryPreventive,
		CategoryFilters,
		CategoryBrakes,
		CategoryBrakeFluid,
		CategoryBattery,
		CategoryTires,
	}
	if len(daily) != len(wantDaily) {
		t.Fatalf("expected %d daily rules, got %d", len(wantDaily), len(daily))
	}
	for i, cat := range wantDaily {
		if daily[i].Category != cat {
			t.Fatalf("daily rule %d: expected %q, got %q", i, cat, daily[i].Category)
		}
	}

	wantOccasional := []Category{CategoryOilChange, CategoryPreventive, CategoryTires}
	if len(occasional) != len(wantOccasional) {
		t.Fatalf("expected %d occasional rules, got %d", len(wantOccasional), len(occasional))
	}
	for i, cat := range wantOccasional {
		if occasional[i].Category != cat {
			t.Fatalf("occasional rule %d: expected %q, got %q", i, cat, occasional[i].Category)
		}
	}
}

func TestRulesFor_TireCadence(t *testing.T) {
	daily := RulesFor(types.UsageProfileDaily)
	occasional := RulesFor(types.UsageProfileOccasional)

	if daily[len(daily)-1].TimeDays != 14 {
		t.Fatalf("expected daily tire cadence of 14 days, got %d", daily[len(daily)-1].TimeDays)
	}
	if occasional[len(occasional)-1].TimeDays != 30 {
		t.Fatalf("expected occasional tire cadence of 30 days, got %d", occasional[len(occasional)-1].TimeDays)
	}
}

func TestOilChangeThreshold_CityStrictlyTighterForEveryOil(t *testing.T) {
	oils := []types.OilType{types.OilTypeMineral, types.OilTypeSemiSynthetic, types.OilTypeSynthetic}
	for _, oil := range oils {
		normalKm, normalMonths := OilChangeThreshold(oil, types.UsageIntensityNormal)
		cityKm, cityMonths := OilChangeThreshold(oil, types.UsageIntensityStopAndGo)
		if cityKm >= normalKm {
			t.Fatalf("%s: city km threshold %d not below normal %d", oil, cityKm, normalKm)
		}
		if cityMonths >= normalMonths {
			t.Fatalf("%s: city month threshold %d not below normal %d", oil, cityMonths, normalMonths)
		}
	}
}

func TestOilChangeThreshold_Matrix(t *testing.T) {
	cases := []struct {
		oil       types.OilType
		intensity types.UsageIntensity
		km        int
		months    int
	}{
		{types.OilTypeMineral, types.UsageIntensityNormal, 4500, 5},
		{types.OilTypeMineral, types.UsageIntensityStopAndGo, 4000, 4},
		{types.OilTypeSemiSynthetic, types.UsageIntensityNormal, 6000, 6},
		{types.OilTypeSemiSynthetic, types.UsageIntensityStopAndGo, 5500, 5},
		{types.OilTypeSynthetic, types.UsageIntensityNormal, 10000, 12},
		{types.OilTypeSynthetic, types.UsageIntensityStopAndGo, 8000, 10},
		// Highway driving follows the normal schedule.
		{types.OilTypeSynthetic, types.UsageIntensityHighway, 10000, 12},
	}
	for _, tc := range cases {
		km, months := OilChangeThreshold(tc.oil, tc.intensity)
		if km != tc.km || months != tc.months {
			t.Fatalf("%s/%s: expected %d km / %d months, got %d / %d", tc.oil, tc.intensity, tc.km, tc.months, km, months)
		}
	}
}

func TestOilChangeThreshold_UnknownOilFallsBackToMineral(t *testing.T) {
	km, months := OilChangeThreshold(types.OilType("vegetable"), types.UsageIntensityNormal)
	if km != 4500 || months != 5 {
		t.Fatalf("expected mineral fallback (4500/5), got %d/%d", km, months)
	}
}

// The dedup gate finds a prior notification by matching the rule label
// inside the stored title, so every label must be a substring of its own
// title and of no other title that can share the same user, vehicle, and
// notification category.
func TestRuleLabels_MatchOnlyTheirOwnTitles(t *testing.T) {
	type entry struct {
		label string
		title string
	}
	var entries []entry
	for _, r := range RulesFor(types.UsageProfileDaily) {
		entries = append(entries, entry{label: r.Label, title: r.Title})
	}
	for _, r := range RulesFor(types.UsageProfileOccasional) {
		entries = append(entries, entry{label: r.Label, title: r.Title})
	}
	for _, rung := range MileageLadder {
		entries = append(entries, entry{label: rung.Label, title: rung.Title})
	}

	for _, e := range entries {
		if !strings.Contains(strings.ToLower(e.title), strings.ToLower(e.label)) {
			t.Fatalf("label %q is not a substring of its title %q", e.label, e.title)
		}
	}
	for i, a := range entries {
		for j, b := range entries {
			if i == j || a.title == b.title {
				continue
			}
			if strings.Contains(strings.ToLower(b.title), strings.ToLower(a.label)) {
				t.Fatalf("label %q also matches title %q", a.label, b.title)
			}
		}
	}
}

func TestMileageLadder_Descending(t *testing.T) {
	for i := 1; i < len(MileageLadder); i++ {
		if MileageLadder[i].Km >= MileageLadder[i-1].Km {
			t.Fatalf("ladder not descending at index %d", i)
		}
	}
	if MileageLadder[len(MileageLadder)-1].Km != 5000 {
		t.Fatalf("expected lowest rung at 5000 km, got %d", MileageLadder[len(MileageLadder)-1].Km)
	}
}
