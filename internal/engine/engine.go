// README: Filter & aggregation engine; one synchronous pass per question.
package engine

import (
	"sort"
	"time"

	"fetii/internal/dataset"
	"fetii/internal/query"
	"fetii/internal/stats"
)

// largeGroupMin is the fixed passenger threshold for "large group"
// sub-analyses. It is deliberately independent of any min_group_size
// filter already applied.
const largeGroupMin = 6

const topDestinationLimit = 10

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var ageBucketOrder = []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55+", "Unknown"}

// Engine runs query specs against a dataset snapshot. The clock only
// matters for relative time-period phrases ("last month") and is
// injectable for tests.
type Engine struct {
	now func() time.Time
}

func New() *Engine {
	return &Engine{now: time.Now}
}

func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Run applies the spec's filters and computes the intent-specific
// aggregation. The returned rows are the filtered set (for destination
// searches, the rows matching the destination). Aggregations that depend
// on an absent column omit that sub-result instead of failing.
func (e *Engine) Run(spec query.Spec, table *dataset.Table) ([]dataset.Trip, *Result) {
	res := &Result{Intent: spec.Intent}
	if table == nil {
		res.Error = "no data loaded"
		return nil, res
	}

	rows := Filter(table, spec.Filters)
	res.TotalTrips = len(rows)
	res.ColumnsAvailable = table.Columns()
	e.fillDetailed(res, table, rows)

	switch spec.Intent {
	case query.IntentGroupSizeAnalysis:
		res.GroupSize = analyzeGroupSizes(table, rows, res)
	case query.IntentHourlyAnalysis:
		res.Hourly = analyzeHourly(table, rows, res)
	case query.IntentDayOfWeekAnalysis:
		res.DayOfWeek = analyzeDayOfWeek(table, rows, res)
	case query.IntentAgeGroupAnalysis:
		res.AgeGroups = analyzeAgeGroups(table, rows, res)
	case query.IntentMonthlyAnalysis:
		res.Monthly = analyzeMonthly(table, rows, res)
	case query.IntentDestinationSearch:
		destRows := table.SearchTrips(spec.Destination)
		res.Destination = e.destinationStats(spec, table, destRows)
		return destRows, res
	}
	return rows, res
}

// fillDetailed computes the filtered-set profile shared by every intent.
func (e *Engine) fillDetailed(res *Result, table *dataset.Table, rows []dataset.Trip) {
	if table.Has(dataset.ColHour) {
		res.HourlyDistribution = countByHour(rows)
	}
	if table.Has(dataset.ColDayOfWeek) {
		res.DailyDistribution = countByDay(rows)
	}
	if table.Has(dataset.ColDropoffAddr) {
		res.TopDestinations = topDestinations(rows, topDestinationLimit)
	}
	if table.Has(dataset.ColGroupSize) && len(rows) > 0 {
		sizes := groupSizes(rows)
		res.GroupSizeBasics = &GroupSizeBasics{
			Mean:           stats.Round2(stats.Mean(sizes)),
			Median:         stats.Median(sizes),
			Min:            int(stats.Min(sizes)),
			Max:            int(stats.Max(sizes)),
			LargeGroups6Up: countAtLeast(rows, largeGroupMin),
		}
	}
	if table.Has(dataset.ColTripDuration) {
		var minutes []float64
		for _, trip := range rows {
			if trip.DurationMin != nil {
				minutes = append(minutes, *trip.DurationMin)
			}
		}
		if len(minutes) > 0 {
			res.Duration = &DurationStats{
				Mean:  stats.Round2(stats.Mean(minutes)),
				Min:   stats.Round2(stats.Min(minutes)),
				Max:   stats.Round2(stats.Max(minutes)),
				Trips: len(minutes),
			}
		}
	}
}

func analyzeGroupSizes(table *dataset.Table, rows []dataset.Trip, res *Result) *GroupSizeAnalysis {
	if !table.Has(dataset.ColGroupSize) {
		res.Error = "no group size column"
		return nil
	}
	a := &GroupSizeAnalysis{Distribution: make(map[int]int)}
	for _, trip := range rows {
		a.Distribution[trip.GroupSize]++
		switch {
		case trip.GroupSize <= 3:
			a.Categories.Small13++
		case trip.GroupSize <= 6:
			a.Categories.Medium46++
		case trip.GroupSize <= 10:
			a.Categories.Large710++
		default:
			a.Categories.VeryLarge11++
		}
	}
	if len(rows) > 0 {
		sizes := groupSizes(rows)
		a.Stats = &GroupSizeStats{
			Mean:   stats.Round2(stats.Mean(sizes)),
			Median: stats.Median(sizes),
			Mode:   int(stats.Mode(sizes)),
			StdDev: stats.Round2(stats.StdDev(sizes)),
			Min:    int(stats.Min(sizes)),
			Max:    int(stats.Max(sizes)),
			Q1:     stats.Quantile(sizes, 0.25),
			Q3:     stats.Quantile(sizes, 0.75),
		}
	}
	if table.Has(dataset.ColHour) {
		a.ByHour = groupSizeByHour(rows)
	}
	if table.Has(dataset.ColDayOfWeek) {
		a.ByDay = groupSizeByKey(rows, weekdayOrder, func(t dataset.Trip) string { return t.DayOfWeek })
	}
	if table.Has(dataset.ColAgeGroup) {
		a.ByAgeGroup = groupSizeByKey(rows, ageBucketOrder, func(t dataset.Trip) string { return t.AgeGroup })
	}
	return a
}

func analyzeHourly(table *dataset.Table, rows []dataset.Trip, res *Result) *HourlyAnalysis {
	if !table.Has(dataset.ColHour) {
		res.Error = "no hour column"
		return nil
	}
	counts := countByHour(rows)
	a := &HourlyAnalysis{
		Distribution: counts,
		PeakHours:    topHours(counts, 5),
	}
	for _, trip := range timedTrips(rows) {
		switch {
		case trip.Hour >= 6 && trip.Hour < 9:
			a.TimePeriods.EarlyMorning++
		case trip.Hour >= 9 && trip.Hour < 12:
			a.TimePeriods.Morning++
		case trip.Hour >= 12 && trip.Hour < 17:
			a.TimePeriods.Afternoon++
		case trip.Hour >= 17 && trip.Hour < 21:
			a.TimePeriods.Evening++
		default:
			a.TimePeriods.Night++
		}
	}
	if table.Has(dataset.ColGroupSize) {
		a.ByHour = groupSizeByHour(rows)
		var large []dataset.Trip
		for _, trip := range rows {
			if trip.GroupSize >= largeGroupMin {
				large = append(large, trip)
			}
		}
		if len(large) > 0 {
			a.LargeGroupPeakHours = topHours(countByHour(large), 5)
		}
	}
	return a
}

func analyzeDayOfWeek(table *dataset.Table, rows []dataset.Trip, res *Result) *DayOfWeekAnalysis {
	if !table.Has(dataset.ColDayOfWeek) {
		res.Error = "no day of week column"
		return nil
	}
	a := &DayOfWeekAnalysis{Distribution: countByDay(rows)}
	a.MostPopularDay = mostCommonKey(a.Distribution, weekdayOrder)

	var weekend, weekday []dataset.Trip
	for _, trip := range rows {
		if trip.DayOfWeek == "" {
			continue
		}
		if trip.DayOfWeek == "Saturday" || trip.DayOfWeek == "Sunday" {
			weekend = append(weekend, trip)
		} else {
			weekday = append(weekday, trip)
		}
	}
	a.WeekendTrips = len(weekend)
	a.WeekdayTrips = len(weekday)

	if table.Has(dataset.ColGroupSize) {
		a.ByDay = groupSizeByKey(rows, weekdayOrder, func(t dataset.Trip) string { return t.DayOfWeek })
		a.WeekendAvgGroupSize = stats.Round2(stats.Mean(groupSizes(weekend)))
		a.WeekdayAvgGroupSize = stats.Round2(stats.Mean(groupSizes(weekday)))
		a.WeekendLargeGroups = countAtLeast(weekend, largeGroupMin)
		a.WeekdayLargeGroups = countAtLeast(weekday, largeGroupMin)
	}
	if table.Has(dataset.ColDropoffAddr) {
		a.TopDestinationsByDay = make(map[string][]DestinationCount)
		for _, day := range weekdayOrder {
			var dayRows []dataset.Trip
			for _, trip := range rows {
				if trip.DayOfWeek == day {
					dayRows = append(dayRows, trip)
				}
			}
			if len(dayRows) > 0 {
				a.TopDestinationsByDay[day] = topDestinations(dayRows, 3)
			}
		}
	}
	return a
}

func analyzeAgeGroups(table *dataset.Table, rows []dataset.Trip, res *Result) *AgeGroupAnalysis {
	if !table.Has(dataset.ColAgeGroup) {
		res.Error = "no age group column"
		return nil
	}
	a := &AgeGroupAnalysis{Distribution: make(map[string]int)}
	byBucket := make(map[string][]dataset.Trip)
	for _, trip := range rows {
		a.Distribution[trip.AgeGroup]++
		byBucket[trip.AgeGroup] = append(byBucket[trip.AgeGroup], trip)
	}
	a.MostCommonGroup = mostCommonKey(a.Distribution, ageBucketOrder)

	if table.Has(dataset.ColGroupSize) {
		for _, bucket := range ageBucketOrder {
			bucketRows := byBucket[bucket]
			if len(bucketRows) == 0 {
				continue
			}
			sizes := groupSizes(bucketRows)
			a.ByBucket = append(a.ByBucket, AgeBucketStat{
				Bucket:       bucket,
				AvgGroupSize: stats.Round2(stats.Mean(sizes)),
				Trips:        len(bucketRows),
				MinGroupSize: int(stats.Min(sizes)),
				MaxGroupSize: int(stats.Max(sizes)),
			})
		}
		large := make(map[string]int)
		for _, trip := range rows {
			if trip.GroupSize >= largeGroupMin {
				large[trip.AgeGroup]++
			}
		}
		if len(large) > 0 {
			a.LargeGroupAges = large
		}
	}
	if table.Has(dataset.ColDropoffAddr) {
		a.TopDestinationsByBucket = make(map[string][]DestinationCount)
		for bucket, bucketRows := range byBucket {
			a.TopDestinationsByBucket[bucket] = topDestinations(bucketRows, 3)
		}
	}
	if table.Has(dataset.ColHour) {
		a.TopHoursByBucket = make(map[string][]HourCount)
		for bucket, bucketRows := range byBucket {
			a.TopHoursByBucket[bucket] = topHours(countByHour(bucketRows), 3)
		}
	}
	return a
}

func analyzeMonthly(table *dataset.Table, rows []dataset.Trip, res *Result) *MonthlyAnalysis {
	if !table.Has(dataset.ColPickupTime) {
		res.Error = "no date column"
		return nil
	}
	a := &MonthlyAnalysis{
		ByMonth:     make(map[int]int),
		ByMonthName: make(map[string]int),
		ByYear:      make(map[int]int),
	}
	byMonth := make(map[int][]dataset.Trip)
	for _, trip := range timedTrips(rows) {
		a.ByMonth[trip.Month]++
		a.ByMonthName[time.Month(trip.Month).String()]++
		a.ByYear[trip.Year]++
		byMonth[trip.Month] = append(byMonth[trip.Month], trip)
	}
	for month := 1; month <= 12; month++ {
		if n := a.ByMonth[month]; n > 0 && n > a.ByMonth[monthNumber(a.MostActiveMonth)] {
			a.MostActiveMonth = time.Month(month).String()
		}
	}
	if table.Has(dataset.ColGroupSize) {
		for month := 1; month <= 12; month++ {
			monthRows := byMonth[month]
			if len(monthRows) == 0 {
				continue
			}
			a.ByMonthGroupSize = append(a.ByMonthGroupSize, MonthGroupStat{
				Month:        month,
				AvgGroupSize: stats.Round2(stats.Mean(groupSizes(monthRows))),
				Trips:        len(monthRows),
			})
		}
	}
	if table.Has(dataset.ColDropoffAddr) {
		a.TopDestinationsByMonth = make(map[int][]DestinationCount)
		for month, monthRows := range byMonth {
			a.TopDestinationsByMonth[month] = topDestinations(monthRows, 3)
		}
	}
	return a
}

// destinationStats reports exact/substring matches when any exist, or the
// fuzzy suggestion list when none do, never both.
func (e *Engine) destinationStats(spec query.Spec, table *dataset.Table, destRows []dataset.Trip) *DestinationStats {
	d := &DestinationStats{Term: spec.Destination}
	if len(destRows) == 0 {
		d.Suggestions = table.SimilarDestinations(spec.Destination, dataset.DefaultSuggestionLimit)
		return d
	}
	d.Found = true

	seen := make(map[string]bool)
	for _, trip := range destRows {
		if !seen[trip.DropoffAddress] {
			seen[trip.DropoffAddress] = true
			d.MatchingDestinations = append(d.MatchingDestinations, trip.DropoffAddress)
		}
	}

	counted := destRows
	if spec.TimePeriodPhrase == "last month" && table.Has(dataset.ColPickupTime) {
		cutoff := e.now().AddDate(0, -1, 0)
		var recent []dataset.Trip
		for _, trip := range destRows {
			if !trip.PickupTime.IsZero() && !trip.PickupTime.Before(cutoff) {
				recent = append(recent, trip)
			}
		}
		counted = recent
	}
	d.TotalTrips = len(counted)

	if table.Has(dataset.ColGroupSize) {
		sizes := groupSizes(counted)
		d.TotalPassengers = int(stats.Sum(sizes))
		if len(counted) > 0 {
			d.AvgGroupSize = stats.Round2(stats.Mean(sizes))
			d.MinGroupSize = int(stats.Min(sizes))
			d.MaxGroupSize = int(stats.Max(sizes))
		}
	}
	if table.Has(dataset.ColPickupTime) {
		for _, trip := range timedTrips(destRows) {
			if d.DateStart.IsZero() || trip.PickupTime.Before(d.DateStart) {
				d.DateStart = trip.PickupTime
			}
			if trip.PickupTime.After(d.DateEnd) {
				d.DateEnd = trip.PickupTime
			}
		}
		d.MonthlyDistribution = make(map[int]int)
		for _, trip := range timedTrips(destRows) {
			d.MonthlyDistribution[trip.Month]++
		}
	}
	if table.Has(dataset.ColHour) {
		d.HourlyDistribution = countByHour(destRows)
	}
	if table.Has(dataset.ColDayOfWeek) {
		d.DailyDistribution = countByDay(destRows)
	}
	return d
}

// ---- helpers ----

func groupSizes(rows []dataset.Trip) []float64 {
	out := make([]float64, 0, len(rows))
	for _, trip := range rows {
		out = append(out, float64(trip.GroupSize))
	}
	return out
}

// timedTrips drops rows whose pickup timestamp did not parse, so hour 0
// never absorbs them.
func timedTrips(rows []dataset.Trip) []dataset.Trip {
	out := make([]dataset.Trip, 0, len(rows))
	for _, trip := range rows {
		if !trip.PickupTime.IsZero() {
			out = append(out, trip)
		}
	}
	return out
}

func countAtLeast(rows []dataset.Trip, min int) int {
	n := 0
	for _, trip := range rows {
		if trip.GroupSize >= min {
			n++
		}
	}
	return n
}

func countByHour(rows []dataset.Trip) map[int]int {
	counts := make(map[int]int)
	for _, trip := range timedTrips(rows) {
		counts[trip.Hour]++
	}
	return counts
}

func countByDay(rows []dataset.Trip) map[string]int {
	counts := make(map[string]int)
	for _, trip := range rows {
		if trip.DayOfWeek != "" {
			counts[trip.DayOfWeek]++
		}
	}
	return counts
}

// topDestinations ranks by count descending, breaking ties by name so the
// order is stable across runs.
func topDestinations(rows []dataset.Trip, limit int) []DestinationCount {
	counts := make(map[string]int)
	for _, trip := range rows {
		if trip.DropoffAddress != "" {
			counts[trip.DropoffAddress]++
		}
	}
	out := make([]DestinationCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, DestinationCount{Name: name, Trips: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trips != out[j].Trips {
			return out[i].Trips > out[j].Trips
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// topHours ranks by count descending, breaking ties by earlier hour.
func topHours(counts map[int]int, limit int) []HourCount {
	out := make([]HourCount, 0, len(counts))
	for hour, n := range counts {
		out = append(out, HourCount{Hour: hour, Trips: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trips != out[j].Trips {
			return out[i].Trips > out[j].Trips
		}
		return out[i].Hour < out[j].Hour
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func groupSizeByHour(rows []dataset.Trip) []HourGroupStat {
	byHour := make(map[int][]float64)
	for _, trip := range timedTrips(rows) {
		byHour[trip.Hour] = append(byHour[trip.Hour], float64(trip.GroupSize))
	}
	out := make([]HourGroupStat, 0, len(byHour))
	for hour := 0; hour < 24; hour++ {
		sizes := byHour[hour]
		if len(sizes) == 0 {
			continue
		}
		out = append(out, HourGroupStat{
			Hour:         hour,
			AvgGroupSize: stats.Round2(stats.Mean(sizes)),
			Trips:        len(sizes),
		})
	}
	return out
}

func groupSizeByKey(rows []dataset.Trip, order []string, key func(dataset.Trip) string) []KeyGroupStat {
	byKey := make(map[string][]float64)
	for _, trip := range rows {
		k := key(trip)
		if k != "" {
			byKey[k] = append(byKey[k], float64(trip.GroupSize))
		}
	}
	out := make([]KeyGroupStat, 0, len(byKey))
	for _, k := range order {
		sizes := byKey[k]
		if len(sizes) == 0 {
			continue
		}
		out = append(out, KeyGroupStat{
			Key:          k,
			AvgGroupSize: stats.Round2(stats.Mean(sizes)),
			Trips:        len(sizes),
		})
	}
	return out
}

// mostCommonKey picks the highest-count key, breaking ties by the fixed
// key order so repeated runs agree.
func mostCommonKey(counts map[string]int, order []string) string {
	best := ""
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

func monthNumber(name string) int {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return int(m)
		}
	}
	return 0
}
