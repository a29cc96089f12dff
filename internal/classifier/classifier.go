// Package classifier provides the keyword predicates used to categorize
// schedule events. Matching is deliberately crude: case-insensitive
// substring containment over the free-text fields, no tokenization, with
// false positives accepted as a known limitation.
package classifier

import (
	"strings"
	"time"

	"github.com/milesgilbert/potustracker/internal/models"
	"github.com/milesgilbert/potustracker/pkg/utils"
)

// LidMarker is the press-office phrase announcing no further public
// activity before midnight.
const LidMarker = "full lid called"

// Category is one keyword classification: a name and the phrase set that
// triggers it. WeekdaysOnly categories only count days that are neither a
// weekend nor a federal holiday.
type Category struct {
	Name         string   `json:"name"`
	Phrases      []string `json:"phrases"`
	WeekdaysOnly bool     `json:"weekdays_only"`
}

// DefaultCategories returns the categories tracked by the schedule page.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:    "mar_a_lago",
			Phrases: []string{"mar-a-lago", "mar a lago"},
		},
		{
			Name:         "weekday_golf",
			Phrases:      []string{"golf club", "golf course", "bedminster", "trump golf"},
			WeekdaysOnly: true,
		},
		{
			Name: "diplomats",
			Phrases: []string{
				"diplomat", "ambassador", "foreign", "minister",
				"president of", "prime minister", "taoiseach", "bilateral",
			},
		},
	}
}

// DefaultHolidays returns the 2024-2025 federal holiday dates.
func DefaultHolidays() []string {
	return []string{
		"2024-01-01", // New Year's Day
		"2024-01-15", // Martin Luther King Jr. Day
		"2024-02-19", // Presidents Day
		"2024-05-27", // Memorial Day
		"2024-06-19", // Juneteenth
		"2024-07-04", // Independence Day
		"2024-09-02", // Labor Day
		"2024-10-14", // Columbus Day
		"2024-11-11", // Veterans Day
		"2024-11-28", // Thanksgiving Day
		"2024-12-25", // Christmas Day
		"2025-01-01", // New Year's Day
		"2025-01-20", // Martin Luther King Jr. Day
		"2025-02-17", // Presidents Day
		"2025-05-26", // Memorial Day
		"2025-06-19", // Juneteenth
		"2025-07-04", // Independence Day
	}
}

// Classifier evaluates category predicates against events
type Classifier struct {
	categories []Category
	holidays   map[string]bool
}

// New creates a classifier over the given categories and holiday dates
func New(categories []Category, holidays []string) *Classifier {
	h := make(map[string]bool, len(holidays))
	for _, d := range holidays {
		h[d] = true
	}
	return &Classifier{categories: categories, holidays: h}
}

// Categories returns the configured categories
func (c *Classifier) Categories() []Category {
	return c.categories
}

// Matches reports whether the event's title, location or description
// contains any of the category's phrases. The fields are tested
// independently; a hit in any one of them is a match.
func (c *Classifier) Matches(cat Category, event models.Event) bool {
	for _, field := range []string{event.Title, event.Location, event.Description} {
		if utils.ContainsAny(strings.ToLower(field), cat.Phrases) {
			return true
		}
	}
	return false
}

// CountsForDay reports whether a matching event on the given day may count
// toward the category. Only WeekdaysOnly categories are gated.
func (c *Classifier) CountsForDay(cat Category, date string) bool {
	if !cat.WeekdaysOnly {
		return true
	}
	return !c.IsWeekend(date) && !c.IsHoliday(date)
}

// IsWeekend reports whether the date falls on a Saturday or Sunday. The
// noon token keeps the weekday stable across timezone offsets; an
// unparseable date is not a weekend.
func (c *Classifier) IsWeekend(date string) bool {
	t, err := time.Parse("2006-01-02T15:04:05", date+"T12:00:00")
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether the date is in the federal holiday list
func (c *Classifier) IsHoliday(date string) bool {
	return c.holidays[date]
}

// HasLidCall reports whether the event's description announces a full lid
func HasLidCall(event models.Event) bool {
	return strings.Contains(strings.ToLower(event.Description), LidMarker)
}
