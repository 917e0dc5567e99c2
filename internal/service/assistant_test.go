package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetii/internal/dataset"
	"fetii/internal/query"
)

// stubProvider returns a fixed answer or error and records the evidence it
// was handed.
type stubProvider struct {
	answer       string
	err          error
	lastQuestion string
	lastEvidence string
}

func (p *stubProvider) GenerateAnswer(_ context.Context, question, evidence string) (string, error) {
	p.lastQuestion = question
	p.lastEvidence = evidence
	if p.err != nil {
		return "", p.err
	}
	return p.answer, nil
}

func fixtureSheets() []dataset.RawSheet {
	return []dataset.RawSheet{
		{
			Name:   "Trip Data",
			Header: []string{"trip_id", "user_id", "pickup_location", "dropoff_location", "pickup_time", "group_size"},
			Rows: [][]string{
				{"1", "101", "Downtown Austin", "Moody Center", "2023-09-16 21:10:00", "8"},
				{"2", "102", "West Campus", "Moody Center", "2023-09-16 22:05:00", "4"},
				{"3", "103", "East Side", "Domain", "2023-09-15 19:30:00", "2"},
			},
		},
		{
			Name:   "Customer Demographics",
			Header: []string{"user_id", "age"},
			Rows:   [][]string{{"101", "22"}, {"102", "30"}, {"103", "19"}},
		},
	}
}

func loadedAssistant(t *testing.T, provider *stubProvider) *Assistant {
	t.Helper()
	a := NewAssistant(provider)
	summary, err := a.LoadSheets(fixtureSheets())
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalTrips)
	return a
}

func TestAskBeforeLoad(t *testing.T) {
	a := NewAssistant(&stubProvider{answer: "hi"})
	_, err := a.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = a.Summary()
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestAskHappyPath(t *testing.T) {
	provider := &stubProvider{answer: "Moody Center dominates with 2 trips."}
	a := loadedAssistant(t, provider)

	got, err := a.Ask(context.Background(), "top drop-off locations overall")
	require.NoError(t, err)

	assert.Equal(t, query.IntentTopDestinations, got.Intent)
	assert.Equal(t, "Moody Center dominates with 2 trips.", got.Answer)
	assert.Equal(t, "high", got.Confidence)
	assert.Equal(t, 3, got.RecordsFound)
	require.NotNil(t, got.Chart)
	assert.Equal(t, "Top Destinations", got.Chart.Title)

	// The provider sees the same evidence the caller gets back.
	assert.Equal(t, got.Evidence, provider.lastEvidence)
	assert.Contains(t, provider.lastEvidence, "DATASET OVERVIEW:")
}

func TestAskProviderFailureStillAnswers(t *testing.T) {
	provider := &stubProvider{err: errors.New("quota exhausted")}
	a := loadedAssistant(t, provider)

	got, err := a.Ask(context.Background(), "what are the peak hours?")
	require.NoError(t, err)

	assert.Equal(t, query.IntentHourlyAnalysis, got.Intent)
	assert.Equal(t, "low", got.Confidence)
	assert.Contains(t, got.Answer, "quota exhausted")
	require.NotNil(t, got.Result)
	assert.NotEmpty(t, got.Evidence)
}

func TestAskWithoutProvider(t *testing.T) {
	a := NewAssistant(nil)
	_, err := a.LoadSheets(fixtureSheets())
	require.NoError(t, err)

	got, err := a.Ask(context.Background(), "show me the group size distribution")
	require.NoError(t, err)
	assert.Equal(t, "low", got.Confidence)
	assert.Contains(t, got.Answer, "No answer model is configured")
	require.NotNil(t, got.Result.GroupSize)
}

func TestLoadSheetsFailureKeepsDataset(t *testing.T) {
	a := loadedAssistant(t, &stubProvider{answer: "ok"})

	_, err := a.LoadSheets([]dataset.RawSheet{{Name: "Unrelated", Header: []string{"x"}}})
	require.ErrorIs(t, err, dataset.ErrNoTripSheet)

	// The previous snapshot is untouched.
	summary, err := a.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalTrips)
}

func TestSearchDestinations(t *testing.T) {
	a := loadedAssistant(t, &stubProvider{answer: "ok"})

	got, err := a.SearchDestinations("moody", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Moody Center"}, got)
}
