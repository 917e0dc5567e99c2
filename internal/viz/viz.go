// README: Chart hints for the UI collaborator; no rendering happens here.
package viz

import (
	"fmt"

	"fetii/internal/engine"
	"fetii/internal/query"
)

// ChartSpec describes the chart a UI should draw for one answer. The core
// never renders; it only names the shape and labels.
type ChartSpec struct {
	Type   query.Chart `json:"type"`
	Title  string      `json:"title"`
	XLabel string      `json:"x_label"`
	YLabel string      `json:"y_label"`
}

// Suggest derives the chart hint from the interpreted spec and result. A
// nil return means there is nothing worth plotting.
func Suggest(spec query.Spec, res *engine.Result) *ChartSpec {
	if res == nil || res.TotalTrips == 0 {
		return nil
	}

	switch spec.Intent {
	case query.IntentTopDestinations:
		return &ChartSpec{
			Type:   query.ChartBar,
			Title:  "Top Destinations",
			XLabel: "Destination",
			YLabel: "Number of Trips",
		}
	case query.IntentHourlyAnalysis, query.IntentHourlyPatterns:
		return &ChartSpec{
			Type:   query.ChartLine,
			Title:  "Hourly Trip Distribution",
			XLabel: "Hour of Day",
			YLabel: "Number of Trips",
		}
	case query.IntentDestinationSearch:
		if res.Destination == nil || !res.Destination.Found {
			return nil
		}
		return &ChartSpec{
			Type:   query.ChartBar,
			Title:  fmt.Sprintf("Trips to %s", spec.Destination),
			XLabel: "Trip Details",
			YLabel: "Count",
		}
	case query.IntentGroupSizeAnalysis:
		return &ChartSpec{
			Type:   spec.Chart,
			Title:  "Group Size Distribution",
			XLabel: "Group Size",
			YLabel: "Number of Trips",
		}
	case query.IntentDayOfWeekAnalysis:
		return &ChartSpec{
			Type:   spec.Chart,
			Title:  "Trips by Day of Week",
			XLabel: "Day of Week",
			YLabel: "Number of Trips",
		}
	case query.IntentAgeGroupAnalysis:
		return &ChartSpec{
			Type:   spec.Chart,
			Title:  "Trips by Age Group",
			XLabel: "Age Group",
			YLabel: "Number of Trips",
		}
	case query.IntentMonthlyAnalysis:
		return &ChartSpec{
			Type:   query.ChartLine,
			Title:  "Monthly Trip Trends",
			XLabel: "Month",
			YLabel: "Number of Trips",
		}
	}
	return &ChartSpec{
		Type:  spec.Chart,
		Title: "Trip Analysis",
	}
}
