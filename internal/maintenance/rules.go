package maintenance

import (
	"github.com/rodamarket/backend/internal/types"
)

type Category string

const (
	CategoryOilChange  Category = "oil_change"
	CategoryPreventive Category = "preventive_service"
	CategoryFilters    Category = "filters"
	CategoryBrakes     Category = "brakes"
	CategoryBrakeFluid Category = "brake_fluid"
	CategoryBattery    Category = "battery"
	CategoryTires      Category = "tires"
)

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyImportant Urgency = "important"
	UrgencyUrgent    Urgency = "urgent"
)

// Rule is one row of the maintenance decision table. A category is due when
// elapsed distance OR elapsed time meets its threshold; a zero threshold
// means that dimension is not tracked for the category. The oil-change row
// leaves DistanceKm/TimeMonths at zero because its thresholds come from the
// oil-type matrix below.
type Rule struct {
	Category Category
	// Label is matched case-insensitively inside stored notification titles
	// by the dedup gate; it must be a substring of Title and of no other
	// rule's or ladder rung's title.
	Label      string
	Title      string
	Message    string
	DistanceKm int
	TimeMonths int
	TimeDays   int
}

// dailyRules is the full table; iteration order is the order recommendations
// are reported in.
var dailyRules = []Rule{
	{
		Category: CategoryOilChange,
		Label:    "oil change",
		Title:    "Oil change due",
		Message:  "Your vehicle is due for an oil change.",
	},
	{
		Category:   CategoryPreventive,
		Label:      "preventive service",
		Title:      "Preventive service due",
		Message:    "Your vehicle is due for its preventive service.",
		DistanceKm: 10000,
		TimeMonths: 12,
	},
	{
		Category:   CategoryFilters,
		Label:      "filter",
		Title:      "Filter replacement due",
		Message:    "Air and fuel filters should be replaced.",
		DistanceKm: 10000,
		TimeMonths: 12,
	},
	{
		Category:   CategoryBrakes,
		Label:      "brake inspection",
		Title:      "Brake inspection due",
		Message:    "Brake pads and discs should be inspected.",
		DistanceKm: 20000,
		TimeMonths: 12,
	},
	{
		Category:   CategoryBrakeFluid,
		Label:      "brake fluid",
		Title:      "Brake fluid change due",
		Message:    "Brake fluid should be replaced.",
		DistanceKm: 40000,
		TimeMonths: 24,
	},
	{
		Category:   CategoryBattery,
		Label:      "battery",
		Title:      "Battery check due",
		Message:    "The battery should be tested and replaced if weak.",
		TimeMonths: 36,
	},
	{
		Category: CategoryTires,
		Label:    "tire check",
		Title:    "Tire check due",
		Message:  "Tire pressure and tread should be checked.",
		TimeDays: 14,
	},
}

// Low-mileage vehicles only accrue trackable wear on a subset of systems.
var occasionalRules = []Rule{
	{
		Category: CategoryOilChange,
		Label:    "oil change",
		Title:    "Oil change due",
		Message:  "Your vehicle is due for an oil change.",
	},
	{
		Category:   CategoryPreventive,
		Label:      "preventive service",
		Title:      "Preventive service due",
		Message:    "Your vehicle is due for its preventive service.",
		DistanceKm: 5000,
		TimeMonths: 12,
	},
	{
		Category: CategoryTires,
		Label:    "tire check",
		Title:    "Tire check due",
		Message:  "Tire pressure and tread should be checked.",
		TimeDays: 30,
	},
}

func RulesFor(profile types.UsageProfile) []Rule {
	if profile == types.UsageProfileOccasional {
		return occasionalRules
	}
	return dailyRules
}

type oilThreshold struct {
	Km     int
	Months int
}

// Stop-and-go city driving tightens both dimensions for every oil type.
// Highway driving uses the normal thresholds.
var oilThresholdsNormal = map[types.OilType]oilThreshold{
	types.OilTypeMineral:       {Km: 4500, Months: 5},
	types.OilTypeSemiSynthetic: {Km: 6000, Months: 6},
	types.OilTypeSynthetic:     {Km: 10000, Months: 12},
}

var oilThresholdsCity = map[types.OilType]oilThreshold{
	types.OilTypeMineral:       {Km: 4000, Months: 4},
	types.OilTypeSemiSynthetic: {Km: 5500, Months: 5},
	types.OilTypeSynthetic:     {Km: 8000, Months: 10},
}

// OilChangeThreshold resolves the oil-change thresholds for a vehicle's oil
// type and usage intensity. Unknown oil types fall back to mineral, the most
// conservative schedule.
func OilChangeThreshold(oil types.OilType, intensity types.UsageIntensity) (km int, months int) {
	table := oilThresholdsNormal
	if intensity == types.UsageIntensityStopAndGo {
		table = oilThresholdsCity
	}
	t, ok := table[oil]
	if !ok {
		t = table[types.OilTypeMineral]
	}
	return t.Km, t.Months
}

// MileageLadder is the coarse distance-only reminder ladder measured from
// the latest service-record odometer. Ordered descending so the first rung
// reached is the highest.
type MileageRung struct {
	Km    int
	Label string
	Title string
}

var MileageLadder = []MileageRung{
	{Km: 80000, Label: "major review", Title: "Major review due"},
	{Km: 40000, Label: "full service", Title: "Full service due"},
	{Km: 20000, Label: "brake review", Title: "Brake review due"},
	{Km: 10000, Label: "general review", Title: "General review due"},
	{Km: 5000, Label: "oil service", Title: "Oil service due"},
}
