// README: Trip and rider models plus the normalized in-memory table.
package dataset

import "time"

// Canonical column names produced by normalization. Downstream code checks
// presence via Table.Has instead of sniffing source headers per call.
const (
	ColTripID       = "trip_id"
	ColUserID       = "user_id"
	ColPickupLat    = "pickup_latitude"
	ColPickupLng    = "pickup_longitude"
	ColDropoffLat   = "dropoff_latitude"
	ColDropoffLng   = "dropoff_longitude"
	ColPickupAddr   = "pickup_location"
	ColDropoffAddr  = "dropoff_location"
	ColPickupTime   = "pickup_time"
	ColDropoffTime  = "dropoff_time"
	ColGroupSize    = "group_size"
	ColHour         = "hour"
	ColDayOfWeek    = "day_of_week"
	ColMonth        = "month"
	ColYear         = "year"
	ColTripDuration = "trip_duration"
	ColTripDistance = "trip_distance"
	ColAge          = "age"
	ColAgeGroup     = "age_group"
)

// Trip is one recorded rideshare trip after normalization. Rows are created
// in bulk at load time and immutable afterwards.
type Trip struct {
	TripID         int64
	UserID         int64
	PickupLat      float64
	PickupLng      float64
	DropoffLat     float64
	DropoffLng     float64
	PickupAddress  string
	DropoffAddress string

	// PickupTime is zero when the source timestamp did not parse; the
	// time-derived fields below are only meaningful when it is set.
	PickupTime  time.Time
	DropoffTime time.Time
	Hour        int
	DayOfWeek   string
	Month       int
	Year        int

	GroupSize int

	// DurationMin is dropoff minus pickup in minutes, nil when either
	// timestamp is missing.
	DurationMin *float64

	// DistanceKm is the straight-line pickup to dropoff distance, nil
	// when any coordinate is missing.
	DistanceKm *float64

	// Demographics joined from the rider sheet. Age is nil and AgeGroup
	// is "Unknown" for trips whose booking user has no demographics row.
	Age      *int
	AgeGroup string
}

// User is one rider from the demographics sheet.
type User struct {
	UserID   int64
	Age      *int
	AgeGroup string
}

// Table is the normalized dataset snapshot. A load replaces it wholesale;
// there is no incremental update path.
type Table struct {
	Trips []Trip
	Users []User

	columns []string
	present map[string]bool
}

// Has reports whether a canonical column survived normalization.
func (t *Table) Has(col string) bool {
	return t != nil && t.present[col]
}

// Columns returns the canonical columns present, in a fixed order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) addColumn(col string) {
	if t.present == nil {
		t.present = make(map[string]bool)
	}
	if !t.present[col] {
		t.present[col] = true
		t.columns = append(t.columns, col)
	}
}

// AgeBucket maps a rider age onto the fixed categorical buckets.
func AgeBucket(age *int) string {
	switch {
	case age == nil:
		return "Unknown"
	case *age < 18:
		return "Under 18"
	case *age <= 24:
		return "18-24"
	case *age <= 34:
		return "25-34"
	case *age <= 44:
		return "35-44"
	case *age <= 54:
		return "45-54"
	default:
		return "55+"
	}
}
