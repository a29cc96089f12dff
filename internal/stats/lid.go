package stats

import (
	"strconv"
	"strings"

	"github.com/milesgilbert/potustracker/internal/classifier"
	"github.com/milesgilbert/potustracker/internal/models"
)

const minutesPerDay = 24 * 60

// LidStats aggregates "full lid" timing across all days
type LidStats struct {
	TotalDaysWithLid int
	TotalLidHours    float64
	AverageLidHours  float64
}

// computeLid groups events by day, takes the last lid-call event per day in
// scan order, and sums the hours remaining until midnight from its start
// time. Days whose lid event carries no parseable HH:MM start time do not
// count.
func computeLid(events []models.Event) LidStats {
	byDay := make(map[string]models.Event)
	for _, event := range events {
		if event.Date == "" || !classifier.HasLidCall(event) {
			continue
		}
		// Last match in scan order wins.
		byDay[event.DateKey()] = event
	}

	var stats LidStats
	for _, event := range byDay {
		hours, ok := hoursToMidnight(event.TimeStart)
		if !ok {
			continue
		}
		stats.TotalDaysWithLid++
		stats.TotalLidHours += hours
	}

	if stats.TotalDaysWithLid > 0 {
		stats.AverageLidHours = stats.TotalLidHours / float64(stats.TotalDaysWithLid)
	}
	return stats
}

// hoursToMidnight converts an HH:MM start time into hours remaining in the
// day, e.g. "17:30" -> 6.5.
func hoursToMidnight(timeStart string) (float64, bool) {
	parts := strings.Split(timeStart, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	fromMidnight := hours*60 + minutes
	return float64(minutesPerDay-fromMidnight) / 60, true
}
