// README: Whole-dataset overview used for the evidence preamble.
package engine

import (
	"time"

	"fetii/internal/dataset"
	"fetii/internal/stats"
)

// Summary is the unfiltered dataset overview. MostCommonHour is -1 when no
// trip carries a usable timestamp.
type Summary struct {
	TotalTrips         int
	DateStart          time.Time
	DateEnd            time.Time
	UniqueDestinations int
	AvgGroupSize       float64
	MostCommonDay      string
	MostCommonHour     int
}

// Summarize profiles the full table. It never fails: absent columns simply
// leave their fields at zero values.
func Summarize(table *dataset.Table) Summary {
	s := Summary{MostCommonHour: -1}
	if table == nil {
		return s
	}
	s.TotalTrips = len(table.Trips)

	if table.Has(dataset.ColPickupTime) {
		for _, trip := range timedTrips(table.Trips) {
			if s.DateStart.IsZero() || trip.PickupTime.Before(s.DateStart) {
				s.DateStart = trip.PickupTime
			}
			if trip.PickupTime.After(s.DateEnd) {
				s.DateEnd = trip.PickupTime
			}
		}
	}
	if table.Has(dataset.ColDropoffAddr) {
		s.UniqueDestinations = len(table.Destinations())
	}
	if table.Has(dataset.ColGroupSize) && len(table.Trips) > 0 {
		s.AvgGroupSize = stats.Round2(stats.Mean(groupSizes(table.Trips)))
	}
	if table.Has(dataset.ColDayOfWeek) {
		s.MostCommonDay = mostCommonKey(countByDay(table.Trips), weekdayOrder)
	}
	if table.Has(dataset.ColHour) {
		if top := topHours(countByHour(table.Trips), 1); len(top) > 0 {
			s.MostCommonHour = top[0].Hour
		}
	}
	return s
}
