// README: Aggregation result shapes; ephemeral, rebuilt per question.
package engine

import (
	"time"

	"fetii/internal/query"
)

// DestinationCount is one ranked destination entry.
type DestinationCount struct {
	Name  string
	Trips int
}

// HourCount is one hour-of-day bucket.
type HourCount struct {
	Hour  int
	Trips int
}

// KeyGroupStat carries the mean group size and trip count for one grouping
// key (a day name, an age bucket).
type KeyGroupStat struct {
	Key          string
	AvgGroupSize float64
	Trips        int
}

// HourGroupStat is the mean group size and trip count for one hour.
type HourGroupStat struct {
	Hour         int
	AvgGroupSize float64
	Trips        int
}

// MonthGroupStat is the mean group size and trip count for one month.
type MonthGroupStat struct {
	Month        int
	AvgGroupSize float64
	Trips        int
}

// GroupSizeStats are the descriptive statistics over passenger counts.
// Nil on an empty filtered set; never a division by zero.
type GroupSizeStats struct {
	Mean   float64
	Median float64
	Mode   int
	StdDev float64
	Min    int
	Max    int
	Q1     float64
	Q3     float64
}

// SizeCategories buckets trips by passenger count. The four buckets
// partition the filtered set, so their sum equals TotalTrips.
type SizeCategories struct {
	Small13     int // 1-3 passengers (and rows missing a count)
	Medium46    int // 4-6
	Large710    int // 7-10
	VeryLarge11 int // 11+
}

// GroupSizeAnalysis is the group_size_analysis intent payload.
type GroupSizeAnalysis struct {
	Stats        *GroupSizeStats
	Distribution map[int]int
	Categories   SizeCategories
	ByHour       []HourGroupStat
	ByDay        []KeyGroupStat
	ByAgeGroup   []KeyGroupStat
}

// TimePeriodCounts are the fixed time-of-day buckets; Night wraps around
// midnight (21:00-06:00).
type TimePeriodCounts struct {
	EarlyMorning int // 6-9
	Morning      int // 9-12
	Afternoon    int // 12-17
	Evening      int // 17-21
	Night        int // 21-6
}

// HourlyAnalysis is the hourly_analysis intent payload.
type HourlyAnalysis struct {
	Distribution map[int]int
	PeakHours    []HourCount
	TimePeriods  TimePeriodCounts
	ByHour       []HourGroupStat
	// LargeGroupPeakHours is restricted to trips with 6+ passengers,
	// independent of any group-size filter already applied.
	LargeGroupPeakHours []HourCount
}

// DayOfWeekAnalysis is the day_of_week_analysis intent payload.
type DayOfWeekAnalysis struct {
	Distribution         map[string]int
	MostPopularDay       string
	WeekendTrips         int
	WeekdayTrips         int
	ByDay                []KeyGroupStat
	WeekendAvgGroupSize  float64
	WeekdayAvgGroupSize  float64
	WeekendLargeGroups   int
	WeekdayLargeGroups   int
	TopDestinationsByDay map[string][]DestinationCount
}

// AgeGroupAnalysis is the age_group_analysis intent payload.
type AgeGroupAnalysis struct {
	Distribution            map[string]int
	MostCommonGroup         string
	ByBucket                []AgeBucketStat
	LargeGroupAges          map[string]int
	TopDestinationsByBucket map[string][]DestinationCount
	TopHoursByBucket        map[string][]HourCount
}

// AgeBucketStat is the group-size profile of one age bucket.
type AgeBucketStat struct {
	Bucket       string
	AvgGroupSize float64
	Trips        int
	MinGroupSize int
	MaxGroupSize int
}

// MonthlyAnalysis is the monthly_analysis intent payload.
type MonthlyAnalysis struct {
	ByMonth                map[int]int
	ByMonthName            map[string]int
	ByYear                 map[int]int
	MostActiveMonth        string
	ByMonthGroupSize       []MonthGroupStat
	TopDestinationsByMonth map[int][]DestinationCount
}

// DestinationStats is the destination_search intent payload. Found false
// with Suggestions distinguishes "unresolved" from "found with zero trips";
// the two never carry data at the same time.
type DestinationStats struct {
	Found                bool
	Term                 string
	MatchingDestinations []string
	TotalTrips           int
	TotalPassengers      int
	AvgGroupSize         float64
	MinGroupSize         int
	MaxGroupSize         int
	DateStart            time.Time
	DateEnd              time.Time
	HourlyDistribution   map[int]int
	DailyDistribution    map[string]int
	MonthlyDistribution  map[int]int
	Suggestions          []string
}

// DurationStats profiles trip durations in minutes over rows where both
// timestamps parsed.
type DurationStats struct {
	Mean  float64
	Min   float64
	Max   float64
	Trips int
}

// GroupSizeBasics is the always-computed filtered-set profile used by the
// detailed-analysis evidence section.
type GroupSizeBasics struct {
	Mean           float64
	Median         float64
	Min            int
	Max            int
	LargeGroups6Up int
}

// Result is the intent-specific aggregation outcome for one question.
// Sub-results depending on absent columns stay nil instead of failing the
// whole call; Error is set only for whole-intent dependencies.
type Result struct {
	Intent           query.Intent
	TotalTrips       int
	ColumnsAvailable []string

	// Filtered-set analysis, computed for every intent.
	HourlyDistribution map[int]int
	DailyDistribution  map[string]int
	TopDestinations    []DestinationCount
	GroupSizeBasics    *GroupSizeBasics
	Duration           *DurationStats

	// Intent payloads; exactly one is non-nil for the specific intents.
	GroupSize   *GroupSizeAnalysis
	Hourly      *HourlyAnalysis
	DayOfWeek   *DayOfWeekAnalysis
	AgeGroups   *AgeGroupAnalysis
	Monthly     *MonthlyAnalysis
	Destination *DestinationStats

	// Error marks a whole-intent missing-column condition such as
	// "no date column"; partial sub-results above remain valid.
	Error string
}
