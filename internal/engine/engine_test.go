package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetii/internal/dataset"
	"fetii/internal/query"
)

/// fixtureTable loads a small workbook snapshot: six trips across September
// and August 2023, five riders, one without demographics.
func fixtureTable(t *testing.T) *dataset.Table {
	t.Helper()
	trips := dataset.RawSheet{
		Name:   "Trip Data",
		Header: []string{"trip_id", "user_id", "pickup_location", "dropoff_location", "pickup_time", "group_size"},
		Rows: [][]string{
			{"1", "101", "Downtown Austin", "Moody Center", "2023-09-16 21:10:00", "8"},
			{"2", "102", "West Campus", "Moody Center", "2023-09-16 22:05:00", "4"},
			{"3", "103", "East Side", "Moody Center", "2023-09-15 19:30:00", "2"},
			{"4", "101", "Downtown Austin", "Domain", "2023-09-12 08:15:00", "6"},
			{"5", "104", "South Congress", "Domain", "2023-08-20 14:00:00", "3"},
			{"6", "105", "Campus", "Zilker Park", "2023-09-16 23:45:00", "12"},
		},
	}
	demo := dataset.RawSheet{
		Name:   "Customer Demographics",
		Header: []string{"user_id", "age"},
		Rows: [][]string{
			{"101", "22"},
			{"102", "30"},
			{"103", "19"},
			{"104", "40"},
		},
	}
	table, err := dataset.Normalize([]dataset.RawSheet{trips, demo})
	require.NoError(t, err)
	return table
}

func TestRunNilTable(t *testing.T) {
	rows, res := New().Run(query.Spec{Intent: query.IntentGeneral}, nil)
	assert.Nil(t, rows)
	assert.Equal(t, "no data loaded", res.Error)
	assert.Zero(t, res.TotalTrips)
}

func TestRunTopDestinations(t *testing.T) {
	table := fixtureTable(t)
	rows, res := New().Run(query.Spec{Intent: query.IntentTopDestinations}, table)

	assert.Len(t, rows, 6)
	assert.Equal(t, 6, res.TotalTrips)
	require.Len(t, res.TopDestinations, 3)
	assert.Equal(t, DestinationCount{Name: "Moody Center", Trips: 3}, res.TopDestinations[0])
	assert.Equal(t, DestinationCount{Name: "Domain", Trips: 2}, res.TopDestinations[1])
	assert.Equal(t, DestinationCount{Name: "Zilker Park", Trips: 1}, res.TopDestinations[2])
}

func TestRunGroupSizeAnalysis(t *testing.T) {
	table := fixtureTable(t)
	_, res := New().Run(query.Spec{Intent: query.IntentGroupSizeAnalysis}, table)

	require.NotNil(t, res.GroupSize)
	require.NotNil(t, res.GroupSize.Stats)
	st := res.GroupSize.Stats
	assert.Equal(t, 5.83, st.Mean)
	assert.Equal(t, 5.0, st.Median)
	// All sizes occur once; the mode tie resolves to the smallest value.
	assert.Equal(t, 2, st.Mode)
	assert.Equal(t, 2, st.Min)
	assert.Equal(t, 12, st.Max)

	cat := res.GroupSize.Categories
	assert.Equal(t, 2, cat.Small13)
	assert.Equal(t, 2, cat.Medium46)
	assert.Equal(t, 1, cat.Large710)
	assert.Equal(t, 1, cat.VeryLarge11)
	// The four buckets partition the filtered set.
	assert.Equal(t, res.TotalTrips, cat.Small13+cat.Medium46+cat.Large710+cat.VeryLarge11)
}

func TestRunEmptyFilteredSet(t *testing.T) {
	table := fixtureTable(t)
	spec := query.Spec{
		Intent:  query.IntentGroupSizeAnalysis,
		Filters: query.Filters{AgeGroup: "45+"},
	}
	rows, res := New().Run(spec, table)

	assert.Empty(t, rows)
	assert.Zero(t, res.TotalTrips)
	require.NotNil(t, res.GroupSize)
	assert.Nil(t, res.GroupSize.Stats)
	assert.Empty(t, res.GroupSize.Distribution)
	assert.Nil(t, res.GroupSizeBasics)
	assert.Empty(t, res.Error)
}

func TestFilterOrderIndependence(t *testing.T) {
	table := fixtureTable(t)
	fDay := query.Filters{DayOfWeek: "Saturday"}
	fSize := query.Filters{MinGroupSize: 6}
	combined := query.Filters{DayOfWeek: "Saturday", MinGroupSize: 6}

	var dayThenSize, sizeThenDay []int64
	for _, trip := range Filter(table, fDay) {
		if matches(table, trip, fSize) {
			dayThenSize = append(dayThenSize, trip.TripID)
		}
	}
	for _, trip := range Filter(table, fSize) {
		if matches(table, trip, fDay) {
			sizeThenDay = append(sizeThenDay, trip.TripID)
		}
	}

	var both []int64
	for _, trip := range Filter(table, combined) {
		both = append(both, trip.TripID)
	}
	assert.Equal(t, []int64{1, 6}, both)
	assert.Equal(t, both, dayThenSize)
	assert.Equal(t, both, sizeThenDay)
}

func TestFilterSkipsAbsentColumns(t *testing.T) {
	trips := dataset.RawSheet{
		Name:   "Trip Data",
		Header: []string{"trip_id", "pickup_time"},
		Rows: [][]string{
			{"1", "2023-09-16 21:10:00"},
			{"2", "2023-09-15 19:30:00"},
		},
	}
	table, err := dataset.Normalize([]dataset.RawSheet{trips})
	require.NoError(t, err)

	// Without group-size and address columns every row still matches.
	for _, f := range []query.Filters{
		{MinGroupSize: 6},
		{MaxGroupSize: 3},
		{LocationKeyword: "downtown"},
		{AgeGroup: "18-24"},
	} {
		assert.Len(t, Filter(table, f), 2, "filters %+v", f)
	}
}

func TestRunHourlyAnalysis(t *testing.T) {
	table := fixtureTable(t)
	spec := query.Spec{
		Intent:  query.IntentHourlyAnalysis,
		Filters: query.Filters{DayOfWeek: "Saturday"},
	}
	_, res := New().Run(spec, table)

	require.NotNil(t, res.Hourly)
	assert.Equal(t, map[int]int{21: 1, 22: 1, 23: 1}, res.Hourly.Distribution)
	// Counts tie, so peaks come back in ascending hour order.
	require.NotEmpty(t, res.Hourly.PeakHours)
	assert.Equal(t, HourCount{Hour: 21, Trips: 1}, res.Hourly.PeakHours[0])
	assert.Equal(t, 3, res.Hourly.TimePeriods.Night)
	assert.Zero(t, res.Hourly.TimePeriods.Evening)
	// Large-group peaks only consider the 8- and 12-passenger trips.
	require.Len(t, res.Hourly.LargeGroupPeakHours, 2)
	assert.Equal(t, 21, res.Hourly.LargeGroupPeakHours[0].Hour)
	assert.Equal(t, 23, res.Hourly.LargeGroupPeakHours[1].Hour)
}

func TestRunDayOfWeekAnalysis(t *testing.T) {
	table := fixtureTable(t)
	_, res := New().Run(query.Spec{Intent: query.IntentDayOfWeekAnalysis}, table)

	require.NotNil(t, res.DayOfWeek)
	a := res.DayOfWeek
	assert.Equal(t, "Saturday", a.MostPopularDay)
	assert.Equal(t, 4, a.WeekendTrips)
	assert.Equal(t, 2, a.WeekdayTrips)
	assert.Equal(t, 6.75, a.WeekendAvgGroupSize)
	assert.Equal(t, 4.0, a.WeekdayAvgGroupSize)
	assert.Equal(t, 2, a.WeekendLargeGroups)
	assert.Equal(t, 1, a.WeekdayLargeGroups)
	require.Contains(t, a.TopDestinationsByDay, "Saturday")
	assert.Equal(t, DestinationCount{Name: "Moody Center", Trips: 2}, a.TopDestinationsByDay["Saturday"][0])
}

func TestRunAgeGroupAnalysis(t *testing.T) {
	table := fixtureTable(t)
	_, res := New().Run(query.Spec{Intent: query.IntentAgeGroupAnalysis}, table)

	require.NotNil(t, res.AgeGroups)
	a := res.AgeGroups
	assert.Equal(t, map[string]int{"18-24": 3, "25-34": 1, "35-44": 1, "Unknown": 1}, a.Distribution)
	assert.Equal(t, "18-24", a.MostCommonGroup)
	assert.Equal(t, map[string]int{"18-24": 2, "Unknown": 1}, a.LargeGroupAges)
	require.NotEmpty(t, a.ByBucket)
	assert.Equal(t, "18-24", a.ByBucket[0].Bucket)
	// Rider 101 books trips 1 and 4, rider 103 trip 3: sizes 8, 2, 6.
	assert.Equal(t, 5.33, a.ByBucket[0].AvgGroupSize)
}

func TestRunMonthlyAnalysis(t *testing.T) {
	table := fixtureTable(t)
	_, res := New().Run(query.Spec{Intent: query.IntentMonthlyAnalysis}, table)

	require.NotNil(t, res.Monthly)
	assert.Equal(t, map[int]int{8: 1, 9: 5}, res.Monthly.ByMonth)
	assert.Equal(t, "September", res.Monthly.MostActiveMonth)
	assert.Equal(t, map[int]int{2023: 6}, res.Monthly.ByYear)
}

func TestRunMonthlyAnalysisNoDates(t *testing.T) {
	trips := dataset.RawSheet{
		Name:   "Trip Data",
		Header: []string{"trip_id", "dropoff_location", "group_size"},
		Rows:   [][]string{{"1", "Moody Center", "4"}},
	}
	table, err := dataset.Normalize([]dataset.RawSheet{trips})
	require.NoError(t, err)

	_, res := New().Run(query.Spec{Intent: query.IntentMonthlyAnalysis}, table)
	assert.Nil(t, res.Monthly)
	assert.Equal(t, "no date column", res.Error)
}

func TestRunDurationStats(t *testing.T) {
	trips := dataset.RawSheet{
		Name:   "Trip Data",
		Header: []string{"trip_id", "dropoff_location", "pickup_time", "dropoff_time", "group_size"},
		Rows: [][]string{
			{"1", "Moody Center", "2023-09-16 21:00:00", "2023-09-16 21:18:00", "4"},
			{"2", "Domain", "2023-09-16 22:00:00", "2023-09-16 22:30:00", "2"},
			// Unparseable dropoff means no duration for this row.
			{"3", "Domain", "2023-09-16 23:00:00", "n/a", "3"},
		},
	}
	table, err := dataset.Normalize([]dataset.RawSheet{trips})
	require.NoError(t, err)

	_, res := New().Run(query.Spec{Intent: query.IntentGeneral}, table)
	require.NotNil(t, res.Duration)
	assert.Equal(t, 2, res.Duration.Trips)
	assert.Equal(t, 24.0, res.Duration.Mean)
	assert.Equal(t, 18.0, res.Duration.Min)
	assert.Equal(t, 30.0, res.Duration.Max)
}

func TestRunDestinationSearchFound(t *testing.T) {
	table := fixtureTable(t)
	spec := query.Spec{Intent: query.IntentDestinationSearch, Destination: "moody"}
	rows, res := New().Run(spec, table)

	assert.Len(t, rows, 3)
	require.NotNil(t, res.Destination)
	d := res.Destination
	assert.True(t, d.Found)
	assert.Equal(t, []string{"Moody Center"}, d.MatchingDestinations)
	assert.Equal(t, 3, d.TotalTrips)
	assert.Equal(t, 14, d.TotalPassengers)
	assert.Equal(t, 4.67, d.AvgGroupSize)
	assert.Empty(t, d.Suggestions)
}

func TestRunDestinationSearchLastMonth(t *testing.T) {
	table := fixtureTable(t)
	e := NewWithClock(func() time.Time {
		return time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)
	})
	spec := query.Spec{
		Intent:           query.IntentDestinationSearch,
		Destination:      "moody",
		TimePeriodPhrase: "last month",
	}
	rows, res := e.Run(spec, table)

	// Returned rows are still every matching trip; only the counts narrow
	// to the trailing month, and none fall after September 20.
	assert.Len(t, rows, 3)
	d := res.Destination
	require.NotNil(t, d)
	assert.True(t, d.Found)
	assert.Zero(t, d.TotalTrips)
	assert.Zero(t, d.TotalPassengers)
	assert.Zero(t, d.AvgGroupSize)
}

func TestRunDestinationSearchMiss(t *testing.T) {
	table := fixtureTable(t)
	spec := query.Spec{Intent: query.IntentDestinationSearch, Destination: "franklin barbecue"}
	rows, res := New().Run(spec, table)

	assert.Empty(t, rows)
	require.NotNil(t, res.Destination)
	assert.False(t, res.Destination.Found)
	assert.Empty(t, res.Destination.MatchingDestinations)
}

func TestSummarize(t *testing.T) {
	table := fixtureTable(t)
	s := Summarize(table)

	assert.Equal(t, 6, s.TotalTrips)
	assert.Equal(t, 3, s.UniqueDestinations)
	assert.Equal(t, 5.83, s.AvgGroupSize)
	assert.Equal(t, "Saturday", s.MostCommonDay)
	// Every hour count ties at one, so the earliest hour wins.
	assert.Equal(t, 8, s.MostCommonHour)
	assert.Equal(t, time.Date(2023, 8, 20, 14, 0, 0, 0, time.UTC), s.DateStart)
	assert.Equal(t, time.Date(2023, 9, 16, 23, 45, 0, 0, time.UTC), s.DateEnd)
}

func TestSummarizeNil(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalTrips)
	assert.Equal(t, -1, s.MostCommonHour)
}
