// README: QuerySpec types; the structured form of an interpreted question.
package query

// Intent is the classified analytical purpose of a question.
type Intent string

const (
	IntentGeneral           Intent = "general"
	IntentGroupSizeAnalysis Intent = "group_size_analysis"
	IntentHourlyAnalysis    Intent = "hourly_analysis"
	IntentDayOfWeekAnalysis Intent = "day_of_week_analysis"
	IntentAgeGroupAnalysis  Intent = "age_group_analysis"
	IntentMonthlyAnalysis   Intent = "monthly_analysis"
	IntentDestinationSearch Intent = "destination_search"
	IntentTopDestinations   Intent = "top_destinations"
	IntentHourlyPatterns    Intent = "hourly_patterns"
)

// Chart is the visualization hint handed to the UI collaborator. The core
// never renders anything.
type Chart string

const (
	ChartBar     Chart = "bar"
	ChartLine    Chart = "line"
	ChartPie     Chart = "pie"
	ChartScatter Chart = "scatter"
)

// Filters are AND-combined row predicates. A zero value means "no
// constraint", never "match nothing".
type Filters struct {
	AgeGroup        string
	DayOfWeek       string
	TimePeriod      string // "morning", "afternoon" or "evening"
	LocationKeyword string
	MinGroupSize    int
	MaxGroupSize    int
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// Spec is the ephemeral structured representation of one question.
type Spec struct {
	Question         string
	Intent           Intent
	Filters          Filters
	Destination      string
	TimePeriodPhrase string
	Chart            Chart
}
