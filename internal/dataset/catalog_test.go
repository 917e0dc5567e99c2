package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogTable(destinations ...string) *Table {
	t := &Table{}
	for i, dest := range destinations {
		t.Trips = append(t.Trips, Trip{TripID: int64(i + 1), DropoffAddress: dest})
	}
	return t
}

func TestDestinationsDistinctInRowOrder(t *testing.T) {
	table := catalogTable("Moody Center", "Domain", "Moody Center", "", "6th Street")
	assert.Equal(t, []string{"Moody Center", "Domain", "6th Street"}, table.Destinations())
}

func TestSimilarDestinationsOrdering(t *testing.T) {
	table := catalogTable("Moody Amphitheater", "Moody Center", "Domain")

	got := table.SimilarDestinations("Moody", 10)

	// Both contain "moody"; the tie breaks by ascending length.
	assert.Equal(t, []string{"Moody Center", "Moody Amphitheater"}, got)
}

func TestSimilarDestinationsRoundTrip(t *testing.T) {
	table := catalogTable("Moody Center", "Moody Amphitheater", "Domain")

	got := table.SimilarDestinations("Moody Center", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Moody Center", got[0])
}

func TestSimilarDestinationsLimitAndMiss(t *testing.T) {
	table := catalogTable("Moody Center", "Moody Amphitheater", "Moody Theater Annex")

	assert.Len(t, table.SimilarDestinations("moody", 2), 2)
	assert.Empty(t, table.SimilarDestinations("zilker", 5))
	assert.Empty(t, catalogTable().SimilarDestinations("moody", 5))
}

func TestSearchTripsSubstring(t *testing.T) {
	table := catalogTable("Moody Center", "Domain", "Moody Amphitheater")

	got := table.SearchTrips("moody")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].TripID)
	assert.Equal(t, int64(3), got[1].TripID)
}
