package models

import (
	"strings"
	"time"
)

// Event is the canonical form of one schedule feed item. Events are built
// once during normalization and never mutated afterwards; each load cycle
// replaces the full sequence.
type Event struct {
	ID          string `json:"id" db:"id"`
	Date        string `json:"date" db:"date"` // YYYY-MM-DD once canonicalized
	TimeStart   string `json:"timeStart,omitempty" db:"time_start"`
	TimeEnd     string `json:"timeEnd,omitempty" db:"time_end"`
	Title       string `json:"title" db:"title"`
	Location    string `json:"location" db:"location"`
	Description string `json:"description" db:"description"`
	Type        string `json:"type" db:"type"`
	URL         string `json:"url" db:"url"`
}

// DateKey returns the calendar-day portion of the event date.
// Canonical dates carry no time component, but raw dates that failed to
// parse may still include one.
func (e Event) DateKey() string {
	if i := strings.IndexByte(e.Date, 'T'); i >= 0 {
		return e.Date[:i]
	}
	return e.Date
}

// EventQuery represents query parameters for filtering events
type EventQuery struct {
	Search string   `json:"search"`
	Types  []string `json:"types"`
	Since  string   `json:"since"` // YYYY-MM-DD, inclusive
	Until  string   `json:"until"` // YYYY-MM-DD, inclusive
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// Matches checks if an event matches the query criteria. The search term
// matches case-insensitively against title, description and location, the
// same fields the schedule page searched.
func (q EventQuery) Matches(event Event) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(event.Title), term) &&
			!strings.Contains(strings.ToLower(event.Description), term) &&
			!strings.Contains(strings.ToLower(event.Location), term) {
			return false
		}
	}
	if len(q.Types) > 0 && !contains(q.Types, event.Type) {
		return false
	}
	// Canonical YYYY-MM-DD dates order correctly as strings.
	if q.Since != "" && event.DateKey() < q.Since {
		return false
	}
	if q.Until != "" && event.DateKey() > q.Until {
		return false
	}
	return true
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Backup is the serialized form written to and read from the backup store.
// It is only ever fully replaced, never merged.
type Backup struct {
	Events      []Event   `json:"events"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}

// Statistics is the derived, display-ready bundle. It is recomputed from
// scratch whenever the event sequence changes and has no persisted identity.
type Statistics struct {
	DaysInOffice     int            `json:"days_in_office"`
	CategoryDays     map[string]int `json:"category_days"`
	CategoryTrips    map[string]int `json:"category_trips"`
	TripCostEstimate float64        `json:"trip_cost_estimate"`
	TotalDaysWithLid int            `json:"total_days_with_lid"`
	TotalLidHours    float64        `json:"total_lid_hours"`
	AverageLidHours  float64        `json:"average_lid_hours"`
	// Display roundings: whole hours for the total, floor-hours plus
	// rounded remainder minutes for the average.
	LidHoursDisplay int `json:"lid_hours_display"`
	LidAvgHours     int `json:"lid_avg_hours"`
	LidAvgMinutes   int `json:"lid_avg_minutes"`
}

// Snapshot is the result of one load cycle: the canonical event sequence
// plus everything derived from it. A new snapshot replaces the previous one
// wholesale.
type Snapshot struct {
	Events      []Event    `json:"events"`
	Types       []string   `json:"types"`
	Stats       Statistics `json:"stats"`
	Source      string     `json:"source"` // "feed" or "backup"
	LastUpdated time.Time  `json:"last_updated"`
	LoadedAt    time.Time  `json:"loaded_at"`
}
