// README: Workbook normalization; sheet discovery, column mapping, derived features, demographic join.
package dataset

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"
)

// ErrNoTripSheet is returned when the workbook carries no recognizable trip
// sheet. A failed load must leave any previously loaded table untouched.
var ErrNoTripSheet = errors.New("dataset: no trip sheet found")

const earthRadiusKm = 6371.0

// RawSheet is one worksheet decoded to strings. Keeping normalization on
// this shape separates file I/O from the mapping rules.
type RawSheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// columnSynonyms maps source headers (lowercased, trimmed) to canonical
// names. Evaluated once at load time; unmapped headers pass through.
var columnSynonyms = map[string]string{
	"trip id":            ColTripID,
	"booking user id":    ColUserID,
	"pick up lattittude": ColPickupLat, // misspelling present in the source export
	"pick up latitude":   ColPickupLat,
	"pick up longitude":  ColPickupLng,
	"drop off latitude":  ColDropoffLat,
	"drop off longitude": ColDropoffLng,
	"pick up address":    ColPickupAddr,
	"drop off address":   ColDropoffAddr,
	"trip date and time": ColPickupTime,
	"drop off time":      ColDropoffTime,
	"total passengers":   ColGroupSize,
	"user id":            ColUserID,
	"age":                ColAge,
}

// timestampLayouts are tried in order when parsing source timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"01-02-06 15:04",
	"2006-01-02",
}

// Normalize turns raw workbook sheets into the in-memory trip table. The
// trip sheet is located by exact name "Trip Data"/"Trip data", falling back
// to any sheet whose name contains "trip" case-insensitively; demographics
// fall back on "demo". A missing trip sheet is fatal; missing demographics
// only mean the age columns are absent.
func Normalize(sheets []RawSheet) (*Table, error) {
	trips := findSheet(sheets, []string{"Trip Data", "Trip data"}, "trip")
	if trips == nil {
		return nil, ErrNoTripSheet
	}
	demo := findSheet(sheets, []string{"Customer Demographics"}, "demo")
	return NormalizeTables(*trips, demo)
}

// NormalizeTables is the legacy two-table path: a trip table and an
// optional demographics table with already-discoverable headers.
func NormalizeTables(trips RawSheet, demo *RawSheet) (*Table, error) {
	t := &Table{}

	cols := mapHeader(trips.Header)
	for _, c := range cols {
		if c.canonical != "" {
			t.addColumn(c.canonical)
		}
	}
	if len(t.columns) == 0 {
		return nil, ErrNoTripSheet
	}

	for _, row := range trips.Rows {
		t.Trips = append(t.Trips, buildTrip(cols, row))
	}

	if demo != nil {
		t.Users = normalizeUsers(*demo)
		if len(t.Users) > 0 {
			t.addColumn(ColAge)
			t.addColumn(ColAgeGroup)
		}
	}
	mergeDemographics(t)
	deriveColumns(t)
	return t, nil
}

func findSheet(sheets []RawSheet, exact []string, substr string) *RawSheet {
	for _, name := range exact {
		for i := range sheets {
			if sheets[i].Name == name {
				return &sheets[i]
			}
		}
	}
	for i := range sheets {
		if strings.Contains(strings.ToLower(sheets[i].Name), substr) {
			return &sheets[i]
		}
	}
	return nil
}

type headerCol struct {
	index     int
	canonical string
}

func mapHeader(header []string) []headerCol {
	cols := make([]headerCol, 0, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		canonical, ok := columnSynonyms[key]
		if !ok {
			// Already-canonical headers (legacy flat tables) pass through.
			canonical = canonicalPassthrough(key)
		}
		cols = append(cols, headerCol{index: i, canonical: canonical})
	}
	return cols
}

func canonicalPassthrough(key string) string {
	switch key {
	case ColTripID, ColUserID, ColPickupLat, ColPickupLng, ColDropoffLat,
		ColDropoffLng, ColPickupAddr, ColDropoffAddr, ColPickupTime,
		ColDropoffTime, ColGroupSize, ColAge, ColAgeGroup:
		return key
	}
	return ""
}

func buildTrip(cols []headerCol, row []string) Trip {
	var trip Trip
	trip.AgeGroup = "Unknown"
	for _, c := range cols {
		if c.canonical == "" || c.index >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[c.index])
		if v == "" {
			continue
		}
		switch c.canonical {
		case ColTripID:
			trip.TripID = parseInt(v)
		case ColUserID:
			trip.UserID = parseInt(v)
		case ColPickupLat:
			trip.PickupLat = parseFloat(v)
		case ColPickupLng:
			trip.PickupLng = parseFloat(v)
		case ColDropoffLat:
			trip.DropoffLat = parseFloat(v)
		case ColDropoffLng:
			trip.DropoffLng = parseFloat(v)
		case ColPickupAddr:
			trip.PickupAddress = v
		case ColDropoffAddr:
			trip.DropoffAddress = v
		case ColPickupTime:
			trip.PickupTime = parseTimestamp(v)
		case ColDropoffTime:
			trip.DropoffTime = parseTimestamp(v)
		case ColGroupSize:
			trip.GroupSize = int(parseInt(v))
		case ColAge:
			age := int(parseInt(v))
			trip.Age = &age
		case ColAgeGroup:
			trip.AgeGroup = v
		}
	}
	if trip.Age != nil && trip.AgeGroup == "Unknown" {
		trip.AgeGroup = AgeBucket(trip.Age)
	}
	return trip
}

func normalizeUsers(demo RawSheet) []User {
	cols := mapHeader(demo.Header)
	var users []User
	for _, row := range demo.Rows {
		var u User
		for _, c := range cols {
			if c.index >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c.index])
			if v == "" {
				continue
			}
			switch c.canonical {
			case ColUserID:
				u.UserID = parseInt(v)
			case ColAge:
				age := int(parseInt(v))
				u.Age = &age
			}
		}
		u.AgeGroup = AgeBucket(u.Age)
		if u.UserID != 0 {
			users = append(users, u)
		}
	}
	return users
}

// mergeDemographics left-joins trips to users on the booking user id. The
// join is many-trips-to-one-user; unmatched trips keep nil age fields and
// no trip row is ever dropped or duplicated.
func mergeDemographics(t *Table) {
	if len(t.Users) == 0 {
		return
	}
	byID := make(map[int64]User, len(t.Users))
	for _, u := range t.Users {
		byID[u.UserID] = u
	}
	for i := range t.Trips {
		if u, ok := byID[t.Trips[i].UserID]; ok {
			t.Trips[i].Age = u.Age
			t.Trips[i].AgeGroup = u.AgeGroup
		}
	}
}

func deriveColumns(t *Table) {
	hasPickupTime := t.Has(ColPickupTime)
	hasDropoffTime := t.Has(ColDropoffTime)
	hasCoords := t.Has(ColPickupLat) && t.Has(ColPickupLng) &&
		t.Has(ColDropoffLat) && t.Has(ColDropoffLng)

	for i := range t.Trips {
		trip := &t.Trips[i]
		if !trip.PickupTime.IsZero() {
			trip.Hour = trip.PickupTime.Hour()
			trip.DayOfWeek = trip.PickupTime.Weekday().String()
			trip.Month = int(trip.PickupTime.Month())
			trip.Year = trip.PickupTime.Year()
		}
		if !trip.PickupTime.IsZero() && !trip.DropoffTime.IsZero() {
			minutes := trip.DropoffTime.Sub(trip.PickupTime).Minutes()
			trip.DurationMin = &minutes
		}
		if hasCoords && (trip.PickupLat != 0 || trip.PickupLng != 0) &&
			(trip.DropoffLat != 0 || trip.DropoffLng != 0) {
			km := haversineKm(trip.PickupLat, trip.PickupLng, trip.DropoffLat, trip.DropoffLng)
			trip.DistanceKm = &km
		}
	}

	if hasPickupTime {
		t.addColumn(ColHour)
		t.addColumn(ColDayOfWeek)
		t.addColumn(ColMonth)
		t.addColumn(ColYear)
	}
	if hasPickupTime && hasDropoffTime {
		t.addColumn(ColTripDuration)
	}
	if hasCoords {
		t.addColumn(ColTripDistance)
	}
	// Legacy flat tables carry age on the trip rows themselves.
	if t.Has(ColAge) {
		t.addColumn(ColAgeGroup)
	}
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

func parseInt(v string) int64 {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	// Numeric exports sometimes render integers as floats ("123.0").
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseTimestamp(v string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}
