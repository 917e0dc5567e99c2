// README: AND-combined row predicates over independent columns.
package engine

import (
	"strings"

	"fetii/internal/dataset"
	"fetii/internal/query"
)

// Filter returns the trips matching every set filter. Predicates are
// independent equality/range/substring checks, so application order cannot
// change the outcome. A filter whose column did not survive normalization
// is skipped rather than matching nothing.
func Filter(table *dataset.Table, f query.Filters) []dataset.Trip {
	if table == nil {
		return nil
	}
	out := make([]dataset.Trip, 0, len(table.Trips))
	for _, trip := range table.Trips {
		if matches(table, trip, f) {
			out = append(out, trip)
		}
	}
	return out
}

func matches(table *dataset.Table, trip dataset.Trip, f query.Filters) bool {
	if f.AgeGroup != "" && table.Has(dataset.ColAgeGroup) && trip.AgeGroup != f.AgeGroup {
		return false
	}
	if f.DayOfWeek != "" && table.Has(dataset.ColDayOfWeek) && !strings.EqualFold(trip.DayOfWeek, f.DayOfWeek) {
		return false
	}
	if f.TimePeriod != "" && table.Has(dataset.ColHour) && !inTimePeriod(trip, f.TimePeriod) {
		return false
	}
	if f.LocationKeyword != "" && hasAddresses(table) && !matchesLocation(trip, f.LocationKeyword) {
		return false
	}
	if f.MinGroupSize > 0 && table.Has(dataset.ColGroupSize) && trip.GroupSize < f.MinGroupSize {
		return false
	}
	if f.MaxGroupSize > 0 && table.Has(dataset.ColGroupSize) && trip.GroupSize > f.MaxGroupSize {
		return false
	}
	return true
}

// inTimePeriod checks the hour-range buckets: morning [6,12), afternoon
// [12,18), evening [18,24). Trips without a parsed pickup time fall out of
// every period.
func inTimePeriod(trip dataset.Trip, period string) bool {
	if trip.PickupTime.IsZero() {
		return false
	}
	switch period {
	case "morning":
		return trip.Hour >= 6 && trip.Hour < 12
	case "afternoon":
		return trip.Hour >= 12 && trip.Hour < 18
	case "evening":
		return trip.Hour >= 18 && trip.Hour < 24
	}
	return false
}

func hasAddresses(table *dataset.Table) bool {
	return table.Has(dataset.ColPickupAddr) || table.Has(dataset.ColDropoffAddr)
}

func matchesLocation(trip dataset.Trip, keyword string) bool {
	needle := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(trip.PickupAddress), needle) ||
		strings.Contains(strings.ToLower(trip.DropoffAddress), needle)
}
