// README: Evidence context assembly; deterministic plain-text sections for the answer model.
package evidence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fetii/internal/dataset"
	"fetii/internal/engine"
	"fetii/internal/query"
)

const dateLayout = "2006-01-02"

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Build renders the evidence context handed to the answer model: the
// dataset overview, the filtered-set analysis, then the intent-specific
// results. Rendering is fully deterministic; every map is emitted in a
// fixed order so identical inputs produce identical text.
func Build(spec query.Spec, rows []dataset.Trip, res *engine.Result, summary engine.Summary) string {
	var b strings.Builder

	writeOverview(&b, summary)
	writeDetailed(&b, res)
	writeQuerySpecific(&b, spec, rows, res)

	return strings.TrimRight(b.String(), "\n")
}

func writeOverview(b *strings.Builder, s engine.Summary) {
	line(b, "DATASET OVERVIEW:")
	line(b, "- Total trips in dataset: %d", s.TotalTrips)
	if !s.DateStart.IsZero() {
		line(b, "- Date range: %s to %s", s.DateStart.Format(dateLayout), s.DateEnd.Format(dateLayout))
	} else {
		line(b, "- Date range: Unknown")
	}
	line(b, "- Unique destinations: %d", s.UniqueDestinations)
	line(b, "- Average group size: %.2f", s.AvgGroupSize)
	if s.MostCommonDay != "" {
		line(b, "- Most common day: %s", s.MostCommonDay)
	} else {
		line(b, "- Most common day: Unknown")
	}
	if s.MostCommonHour >= 0 {
		line(b, "- Most common hour: %d", s.MostCommonHour)
	} else {
		line(b, "- Most common hour: Unknown")
	}
	line(b, "")
}

func writeDetailed(b *strings.Builder, res *engine.Result) {
	line(b, "DETAILED ANALYSIS:")
	line(b, "- Filtered trips: %d", res.TotalTrips)
	line(b, "- Available columns: %s", strings.Join(res.ColumnsAvailable, ", "))
	if res.HourlyDistribution != nil {
		line(b, "- Hourly distribution: %s", hourCounts(res.HourlyDistribution))
	}
	if res.DailyDistribution != nil {
		line(b, "- Daily distribution: %s", dayCounts(res.DailyDistribution))
	}
	if len(res.TopDestinations) > 0 {
		line(b, "- Top destinations:")
		for i, d := range res.TopDestinations {
			line(b, "  %d. %s: %d trips", i+1, d.Name, d.Trips)
		}
	}
	if gs := res.GroupSizeBasics; gs != nil {
		line(b, "- Group size statistics:")
		line(b, "  * Average: %.2f", gs.Mean)
		line(b, "  * Median: %.2f", gs.Median)
		line(b, "  * Range: %d - %d", gs.Min, gs.Max)
		line(b, "  * Large groups (6+): %d", gs.LargeGroups6Up)
	}
	line(b, "")
}

func writeQuerySpecific(b *strings.Builder, spec query.Spec, rows []dataset.Trip, res *engine.Result) {
	line(b, "QUERY-SPECIFIC RESULTS:")
	line(b, "- Records found: %d", len(rows))
	if res.Error != "" {
		line(b, "- Analysis unavailable: %s", res.Error)
		return
	}

	switch spec.Intent {
	case query.IntentDestinationSearch:
		writeDestination(b, spec, res.Destination)
	case query.IntentTopDestinations:
		if len(res.TopDestinations) > 0 {
			line(b, "- Top destinations with trip counts:")
			for i, d := range res.TopDestinations {
				line(b, "  %d. %s: %d trips", i+1, d.Name, d.Trips)
			}
		} else {
			line(b, "- No destination data available")
		}
	case query.IntentHourlyPatterns:
		if len(res.HourlyDistribution) > 0 {
			line(b, "- Hourly trip distribution:")
			for _, hc := range sortedHours(res.HourlyDistribution) {
				line(b, "  * Hour %d: %d trips", hc.Hour, hc.Trips)
			}
		} else {
			line(b, "- No time data available")
		}
	case query.IntentGroupSizeAnalysis:
		writeGroupSize(b, res.GroupSize)
	case query.IntentHourlyAnalysis:
		writeHourly(b, res)
	case query.IntentDayOfWeekAnalysis:
		writeDayOfWeek(b, res)
	case query.IntentAgeGroupAnalysis:
		writeAgeGroups(b, res)
	case query.IntentMonthlyAnalysis:
		writeMonthly(b, res)
	default:
		line(b, "- Comprehensive data analysis available")
		if d := res.Duration; d != nil {
			line(b, "- Trip duration statistics:")
			line(b, "  * Average: %.2f minutes", d.Mean)
			line(b, "  * Shortest: %.2f minutes", d.Min)
			line(b, "  * Longest: %.2f minutes", d.Max)
		}
	}
}

func writeDestination(b *strings.Builder, spec query.Spec, d *engine.DestinationStats) {
	if d == nil {
		return
	}
	line(b, "- Destination search results for: %s", d.Term)
	if spec.TimePeriodPhrase != "" {
		line(b, "- Time period: %s", spec.TimePeriodPhrase)
	}
	if !d.Found {
		if len(d.Suggestions) > 0 {
			line(b, "- No exact match found, but similar destinations exist:")
			for i, s := range d.Suggestions {
				line(b, "  %d. %s", i+1, s)
			}
		} else {
			line(b, "- No trips found to %s", d.Term)
		}
		return
	}
	line(b, "- Total trips to %s: %d", d.Term, d.TotalTrips)
	line(b, "- Total passengers: %d", d.TotalPassengers)
	line(b, "- Average group size: %.2f", d.AvgGroupSize)
	if len(d.MatchingDestinations) > 0 {
		line(b, "- Matching destinations: %s", strings.Join(d.MatchingDestinations, "; "))
	}
	if !d.DateStart.IsZero() {
		line(b, "- Date range: %s to %s", d.DateStart.Format(dateLayout), d.DateEnd.Format(dateLayout))
	}
	if len(d.HourlyDistribution) > 0 {
		line(b, "- Peak hours: %s", hourCounts(d.HourlyDistribution))
	}
	if len(d.DailyDistribution) > 0 {
		line(b, "- Day of week distribution: %s", dayCounts(d.DailyDistribution))
	}
}

func writeGroupSize(b *strings.Builder, a *engine.GroupSizeAnalysis) {
	if a == nil {
		return
	}
	line(b, "- Group Size Analysis Results:")
	if st := a.Stats; st != nil {
		line(b, "  * Average group size: %.2f", st.Mean)
		line(b, "  * Median group size: %.2f", st.Median)
		line(b, "  * Most common group size: %d", st.Mode)
		line(b, "  * Group size range: %d - %d", st.Min, st.Max)
	}
	c := a.Categories
	line(b, "  * Small groups (1-3): %d trips", c.Small13)
	line(b, "  * Medium groups (4-6): %d trips", c.Medium46)
	line(b, "  * Large groups (7-10): %d trips", c.Large710)
	line(b, "  * Very large groups (11+): %d trips", c.VeryLarge11)
	for _, hg := range a.ByHour {
		line(b, "  * Hour %d: avg group %.2f over %d trips", hg.Hour, hg.AvgGroupSize, hg.Trips)
	}
	for _, kg := range a.ByDay {
		line(b, "  * %s: avg group %.2f over %d trips", kg.Key, kg.AvgGroupSize, kg.Trips)
	}
	for _, kg := range a.ByAgeGroup {
		line(b, "  * Age %s: avg group %.2f over %d trips", kg.Key, kg.AvgGroupSize, kg.Trips)
	}
}

func writeHourly(b *strings.Builder, res *engine.Result) {
	a := res.Hourly
	if a == nil {
		return
	}
	line(b, "- Hourly Pattern Analysis Results:")
	line(b, "  * Total trips analyzed: %d", res.TotalTrips)
	if len(a.PeakHours) > 0 {
		line(b, "  * Peak hours:")
		for i, hc := range a.PeakHours {
			line(b, "    %d. Hour %d: %d trips", i+1, hc.Hour, hc.Trips)
		}
	}
	line(b, "- Time period distribution:")
	line(b, "    * Early Morning (6-9): %d trips", a.TimePeriods.EarlyMorning)
	line(b, "    * Morning (9-12): %d trips", a.TimePeriods.Morning)
	line(b, "    * Afternoon (12-17): %d trips", a.TimePeriods.Afternoon)
	line(b, "    * Evening (17-21): %d trips", a.TimePeriods.Evening)
	line(b, "    * Night (21-6): %d trips", a.TimePeriods.Night)
	if len(a.LargeGroupPeakHours) > 0 {
		line(b, "- Large group (6+) peak hours:")
		for i, hc := range a.LargeGroupPeakHours {
			line(b, "    %d. Hour %d: %d trips", i+1, hc.Hour, hc.Trips)
		}
	}
}

func writeDayOfWeek(b *strings.Builder, res *engine.Result) {
	a := res.DayOfWeek
	if a == nil {
		return
	}
	line(b, "- Day-of-Week Analysis Results:")
	line(b, "  * Total trips analyzed: %d", res.TotalTrips)
	if a.MostPopularDay != "" {
		line(b, "  * Most popular day: %s", a.MostPopularDay)
	}
	line(b, "  * Weekend trips: %d", a.WeekendTrips)
	line(b, "  * Weekday trips: %d", a.WeekdayTrips)
	if a.WeekendTrips > 0 || a.WeekdayTrips > 0 {
		line(b, "  * Weekend avg group size: %.2f (%d large groups)", a.WeekendAvgGroupSize, a.WeekendLargeGroups)
		line(b, "  * Weekday avg group size: %.2f (%d large groups)", a.WeekdayAvgGroupSize, a.WeekdayLargeGroups)
	}
	for _, day := range weekdayOrder {
		dests := a.TopDestinationsByDay[day]
		if len(dests) == 0 {
			continue
		}
		line(b, "  * Top destinations on %s:", day)
		for i, d := range dests {
			line(b, "    %d. %s: %d trips", i+1, d.Name, d.Trips)
		}
	}
}

func writeAgeGroups(b *strings.Builder, res *engine.Result) {
	a := res.AgeGroups
	if a == nil {
		return
	}
	line(b, "- Age Group Analysis Results:")
	line(b, "  * Total trips analyzed: %d", res.TotalTrips)
	if a.MostCommonGroup != "" {
		line(b, "  * Most common age group: %s", a.MostCommonGroup)
	}
	if len(a.Distribution) > 0 {
		line(b, "- Age group distribution:")
		for _, bucket := range ageBucketOrder {
			if n := a.Distribution[bucket]; n > 0 {
				line(b, "    * %s: %d trips", bucket, n)
			}
		}
	}
	for _, st := range a.ByBucket {
		line(b, "  * %s: avg group %.2f over %d trips (range %d - %d)",
			st.Bucket, st.AvgGroupSize, st.Trips, st.MinGroupSize, st.MaxGroupSize)
	}
	if len(a.LargeGroupAges) > 0 {
		line(b, "- Large group (6+) trips by age:")
		for _, bucket := range ageBucketOrder {
			if n := a.LargeGroupAges[bucket]; n > 0 {
				line(b, "    * %s: %d trips", bucket, n)
			}
		}
	}
}

func writeMonthly(b *strings.Builder, res *engine.Result) {
	a := res.Monthly
	if a == nil {
		return
	}
	line(b, "- Monthly Trend Analysis Results:")
	line(b, "  * Total trips analyzed: %d", res.TotalTrips)
	if a.MostActiveMonth != "" {
		line(b, "  * Most active month: %s", a.MostActiveMonth)
	}
	if len(a.ByMonth) > 0 {
		line(b, "- Monthly distribution:")
		for month := 1; month <= 12; month++ {
			if n := a.ByMonth[month]; n > 0 {
				line(b, "    * %s: %d trips", time.Month(month).String(), n)
			}
		}
	}
	for _, mg := range a.ByMonthGroupSize {
		line(b, "  * %s: avg group %.2f over %d trips", time.Month(mg.Month).String(), mg.AvgGroupSize, mg.Trips)
	}
}

var ageBucketOrder = []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55+", "Unknown"}

// hourCounts renders an hour histogram in ascending hour order.
func hourCounts(counts map[int]int) string {
	parts := make([]string, 0, len(counts))
	for _, hc := range sortedHours(counts) {
		parts = append(parts, fmt.Sprintf("%d=%d", hc.Hour, hc.Trips))
	}
	return strings.Join(parts, ", ")
}

// dayCounts renders a weekday histogram Monday through Sunday.
func dayCounts(counts map[string]int) string {
	var parts []string
	for _, day := range weekdayOrder {
		if n, ok := counts[day]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", day, n))
		}
	}
	return strings.Join(parts, ", ")
}

func sortedHours(counts map[int]int) []engine.HourCount {
	out := make([]engine.HourCount, 0, len(counts))
	for hour, n := range counts {
		out = append(out, engine.HourCount{Hour: hour, Trips: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func line(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}
