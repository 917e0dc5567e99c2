// README: Destination catalog lookups; substring filtering and fuzzy suggestions.
package dataset

import (
	"sort"
	"strings"
)

// DefaultSuggestionLimit caps fuzzy suggestion lists when the caller does
// not supply a limit.
const DefaultSuggestionLimit = 10

// Destinations returns the distinct non-empty dropoff addresses in dataset
// row order. The catalog is recomputed on demand, never cached across loads.
func (t *Table) Destinations() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, trip := range t.Trips {
		if trip.DropoffAddress == "" || seen[trip.DropoffAddress] {
			continue
		}
		seen[trip.DropoffAddress] = true
		out = append(out, trip.DropoffAddress)
	}
	return out
}

// SearchTrips returns every trip whose dropoff address contains term
// case-insensitively, in dataset row order. An empty catalog or a miss
// yields an empty slice, never an error.
func (t *Table) SearchTrips(term string) []Trip {
	if t == nil || term == "" {
		return nil
	}
	needle := strings.ToLower(term)
	var out []Trip
	for _, trip := range t.Trips {
		if strings.Contains(strings.ToLower(trip.DropoffAddress), needle) {
			out = append(out, trip)
		}
	}
	return out
}

// SimilarDestinations ranks catalog entries that contain term. Entries that
// contain the full term sort before partial hits, and among ties shorter
// names rank first, so an exact name is always the head of its own list.
func (t *Table) SimilarDestinations(term string, limit int) []string {
	if t == nil || term == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	needle := strings.ToLower(term)

	var matches []string
	for _, dest := range t.Destinations() {
		if strings.Contains(strings.ToLower(dest), needle) {
			matches = append(matches, dest)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := suggestionRank(matches[i], needle), suggestionRank(matches[j], needle)
		if ri != rj {
			return ri < rj
		}
		return len(matches[i]) < len(matches[j])
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func suggestionRank(dest, needle string) int {
	if strings.Contains(strings.ToLower(dest), needle) {
		return 0
	}
	return 1
}
