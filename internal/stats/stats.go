// Package stats derives the display-ready statistics bundle from a
// normalized event sequence: per-category day and trip counts, lid timing,
// a trip-based travel cost estimate and the running days-in-office count.
package stats

import (
	"math"
	"time"

	"github.com/milesgilbert/potustracker/internal/classifier"
	"github.com/milesgilbert/potustracker/internal/models"
)

// Config holds the tunables of the statistics calculation
type Config struct {
	CostPerTrip   float64
	ReferenceDate string // days-in-office baseline, YYYY-MM-DD
	TripCategory  string // category whose trips drive the cost estimate
}

// Calculator computes statistics bundles. It holds no per-load state; every
// Compute call derives the bundle from scratch.
type Calculator struct {
	classifier *classifier.Classifier
	cfg        Config
}

// New creates a calculator over the given classifier
func New(cls *classifier.Classifier, cfg Config) *Calculator {
	return &Calculator{classifier: cls, cfg: cfg}
}

// Compute builds the statistics bundle for the event sequence. An empty
// sequence yields all-zero counts; Compute never fails.
func (c *Calculator) Compute(events []models.Event, now time.Time) models.Statistics {
	stats := models.Statistics{
		DaysInOffice:  c.daysInOffice(now),
		CategoryDays:  make(map[string]int),
		CategoryTrips: make(map[string]int),
	}

	for _, cat := range c.classifier.Categories() {
		cat := cat
		days := qualifyingDays(events, func(e models.Event) bool {
			return c.classifier.Matches(cat, e) && c.classifier.CountsForDay(cat, e.DateKey())
		})
		stats.CategoryDays[cat.Name] = len(days)
		stats.CategoryTrips[cat.Name] = countTrips(days)
	}

	if trips, ok := stats.CategoryTrips[c.cfg.TripCategory]; ok {
		stats.TripCostEstimate = float64(trips) * c.cfg.CostPerTrip
	}

	lid := computeLid(events)
	stats.TotalDaysWithLid = lid.TotalDaysWithLid
	stats.TotalLidHours = lid.TotalLidHours
	stats.AverageLidHours = lid.AverageLidHours

	stats.LidHoursDisplay = int(math.Round(lid.TotalLidHours))
	stats.LidAvgHours = int(math.Floor(lid.AverageLidHours))
	stats.LidAvgMinutes = int(math.Round((lid.AverageLidHours - math.Floor(lid.AverageLidHours)) * 60))

	return stats
}

// daysInOffice counts whole days elapsed since the reference date.
func (c *Calculator) daysInOffice(now time.Time) int {
	ref, err := time.Parse("2006-01-02", c.cfg.ReferenceDate)
	if err != nil {
		return 0
	}
	elapsed := now.UTC().Sub(ref)
	if elapsed < 0 {
		return 0
	}
	return int(math.Floor(elapsed.Hours() / 24))
}
