package maintenance

import (
	"time"

	"github.com/rodamarket/backend/internal/types"
)

// Recommendation is an ephemeral evaluation result; it is never persisted,
// only rendered into notifications by the dedup gate.
type Recommendation struct {
	Category  Category `json:"category"`
	Urgency   Urgency  `json:"urgency"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	FirstTime bool     `json:"first_time"`

	// Remaining amounts until the threshold, clamped to >= 0; only the
	// dimensions the category tracks are meaningful.
	RemainingKm     int `json:"remaining_km"`
	RemainingMonths int `json:"remaining_months"`
	RemainingDays   int `json:"remaining_days"`
}

// Evaluate walks the rule table for the vehicle's usage profile and returns
// every pending recommendation. Output order is rule-table order, so the
// result is deterministic for a fixed vehicle state and now.
func Evaluate(v *types.Vehicle, now time.Time) []Recommendation {
	var out []Recommendation
	for _, rule := range RulesFor(v.UsageProfile) {
		kmThreshold := rule.DistanceKm
		monthThreshold := rule.TimeMonths
		if rule.Category == CategoryOilChange {
			kmThreshold, monthThreshold = OilChangeThreshold(v.OilType, v.UsageIntensity)
		}

		last, lastOdometer := lastPerformed(v, rule.Category)
		if last == nil {
			// Never on record: always pending, at zero remaining.
			out = append(out, Recommendation{
				Category:  rule.Category,
				Urgency:   firstTimeUrgency(rule.Category),
				Title:     rule.Title,
				Message:   rule.Message + " (FIRST TIME)",
				FirstTime: true,
			})
			continue
		}

		elapsedKm := v.Odometer - lastOdometer
		if elapsedKm < 0 {
			elapsedKm = 0
		}
		elapsedMonths := monthsBetween(*last, now)
		elapsedDays := daysBetween(*last, now)

		dueByKm := kmThreshold > 0 && elapsedKm >= kmThreshold
		dueByMonths := monthThreshold > 0 && elapsedMonths >= monthThreshold
		dueByDays := rule.TimeDays > 0 && elapsedDays >= rule.TimeDays
		if !dueByKm && !dueByMonths && !dueByDays {
			continue
		}

		out = append(out, Recommendation{
			Category:        rule.Category,
			Urgency:         repeatUrgency(rule.Category, dueByMonths, elapsedKm, kmThreshold, elapsedMonths, monthThreshold, elapsedDays, rule.TimeDays),
			Title:           rule.Title,
			Message:         rule.Message,
			RemainingKm:     clampRemaining(kmThreshold, elapsedKm),
			RemainingMonths: clampRemaining(monthThreshold, elapsedMonths),
			RemainingDays:   clampRemaining(rule.TimeDays, elapsedDays),
		})
	}
	return out
}

// firstTimeUrgency is the urgency when a category has never been performed.
// Most systems get the maximum; filters and the low-stakes checks are
// softened per category.
func firstTimeUrgency(cat Category) Urgency {
	switch cat {
	case CategoryFilters:
		return UrgencyImportant
	case CategoryTires, CategoryBattery:
		return UrgencyNormal
	default:
		return UrgencyUrgent
	}
}

func repeatUrgency(cat Category, dueByMonths bool, elapsedKm, kmThreshold, elapsedMonths, monthThreshold, elapsedDays, dayThreshold int) Urgency {
	switch cat {
	case CategoryOilChange:
		// Time overrun means the oil has aged out regardless of distance.
		if dueByMonths {
			return UrgencyUrgent
		}
		return UrgencyImportant
	case CategoryBattery, CategoryTires:
		if significantlyOverdue(elapsedKm, kmThreshold) ||
			significantlyOverdue(elapsedMonths, monthThreshold) ||
			significantlyOverdue(elapsedDays, dayThreshold) {
			return UrgencyImportant
		}
		return UrgencyNormal
	default:
		return UrgencyImportant
	}
}

func significantlyOverdue(elapsed, threshold int) bool {
	return threshold > 0 && elapsed >= 2*threshold
}

func clampRemaining(threshold, elapsed int) int {
	if threshold <= 0 {
		return 0
	}
	r := threshold - elapsed
	if r < 0 {
		return 0
	}
	return r
}

func lastPerformed(v *types.Vehicle, cat Category) (*time.Time, int) {
	switch cat {
	case CategoryOilChange:
		return v.LastOilChangeAt, v.LastOilChangeOdometer
	case CategoryPreventive:
		return v.LastPreventiveAt, v.LastPreventiveOdometer
	case CategoryFilters:
		return v.LastFilterChangeAt, v.LastFilterChangeOdometer
	case CategoryBrakes:
		return v.LastBrakeServiceAt, v.LastBrakeServiceOdometer
	case CategoryBrakeFluid:
		return v.LastBrakeFluidAt, v.LastBrakeFluidOdometer
	case CategoryBattery:
		return v.LastBatteryChangeAt, v.LastBatteryChangeOdometer
	case CategoryTires:
		return v.LastTireCheckAt, 0
	default:
		return nil, 0
	}
}

// monthsBetween counts whole calendar months from from to to, flooring
// partial months. Negative spans count as zero.
func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	m := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		m--
	}
	if m < 0 {
		m = 0
	}
	return m
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
