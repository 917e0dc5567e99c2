package viz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetii/internal/engine"
	"fetii/internal/query"
)

func TestSuggest(t *testing.T) {
	res := &engine.Result{TotalTrips: 10}

	tests := []struct {
		name      string
		spec      query.Spec
		wantType  query.Chart
		wantTitle string
	}{
		{
			name:      "top destinations is always a bar",
			spec:      query.Spec{Intent: query.IntentTopDestinations, Chart: query.ChartLine},
			wantType:  query.ChartBar,
			wantTitle: "Top Destinations",
		},
		{
			name:      "hourly is always a line",
			spec:      query.Spec{Intent: query.IntentHourlyAnalysis, Chart: query.ChartBar},
			wantType:  query.ChartLine,
			wantTitle: "Hourly Trip Distribution",
		},
		{
			name:      "group size keeps the interpreted hint",
			spec:      query.Spec{Intent: query.IntentGroupSizeAnalysis, Chart: query.ChartPie},
			wantType:  query.ChartPie,
			wantTitle: "Group Size Distribution",
		},
		{
			name:      "general fallback",
			spec:      query.Spec{Intent: query.IntentGeneral, Chart: query.ChartBar},
			wantType:  query.ChartBar,
			wantTitle: "Trip Analysis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.spec, res)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantTitle, got.Title)
		})
	}
}

func TestSuggestNothingToPlot(t *testing.T) {
	assert.Nil(t, Suggest(query.Spec{Intent: query.IntentTopDestinations}, nil))
	assert.Nil(t, Suggest(query.Spec{Intent: query.IntentTopDestinations}, &engine.Result{}))

	spec := query.Spec{Intent: query.IntentDestinationSearch, Destination: "moody"}
	res := &engine.Result{TotalTrips: 5, Destination: &engine.DestinationStats{Found: false}}
	assert.Nil(t, Suggest(spec, res))
}

func TestSuggestDestinationTitle(t *testing.T) {
	spec := query.Spec{Intent: query.IntentDestinationSearch, Destination: "Moody Center"}
	res := &engine.Result{TotalTrips: 5, Destination: &engine.DestinationStats{Found: true}}
	got := Suggest(spec, res)
	require.NotNil(t, got)
	assert.Equal(t, "Trips to Moody Center", got.Title)
}
