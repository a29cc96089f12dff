package stats

import (
	"sort"
	"time"

	"github.com/milesgilbert/potustracker/internal/models"
)

// qualifyingDays returns the sorted distinct calendar days on which at least
// one event satisfies the predicate.
func qualifyingDays(events []models.Event, match func(models.Event) bool) []string {
	seen := make(map[string]bool)
	for _, event := range events {
		if event.Date == "" || !match(event) {
			continue
		}
		seen[event.DateKey()] = true
	}

	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// countTrips counts trips over sorted qualifying days using the tracker's
// literal rule: one departure for the first matching day, another whenever
// the gap to the previous matching day exceeds one calendar day, plus one
// implicit return leg at the end. A single isolated day therefore counts as
// two trips (depart and return). This mirrors the upstream counter exactly;
// see DESIGN.md before changing it.
func countTrips(days []string) int {
	if len(days) == 0 {
		return 0
	}

	trips := 1
	prev, prevOK := parseDay(days[0])
	for _, day := range days[1:] {
		cur, ok := parseDay(day)
		if prevOK && ok && wholeDayGap(prev, cur) > 1 {
			trips++
		}
		prev, prevOK = cur, ok
	}

	// Implicit return leg of the final trip.
	return trips + 1
}

// parseDay parses a canonical calendar day at noon. Days that failed
// normalization stay in the day set but never open a new trip.
func parseDay(day string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02T15:04:05", day+"T12:00:00")
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func wholeDayGap(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
