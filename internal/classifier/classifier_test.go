package classifier

import (
	"testing"

	"github.com/milesgilbert/potustracker/internal/models"
)

func findCategory(t *testing.T, name string) Category {
	t.Helper()
	for _, cat := range DefaultCategories() {
		if cat.Name == name {
			return cat
		}
	}
	t.Fatalf("category %s not found", name)
	return Category{}
}

func TestClassifier_Matches(t *testing.T) {
	c := New(DefaultCategories(), DefaultHolidays())

	tests := []struct {
		name     string
		category string
		event    models.Event
		expected bool
	}{
		{
			name:     "Mar-a-Lago in location",
			category: "mar_a_lago",
			event:    models.Event{Location: "Mar-a-Lago, Palm Beach FL"},
			expected: true,
		},
		{
			name:     "Spelling variant without hyphens",
			category: "mar_a_lago",
			event:    models.Event{Description: "Dinner at mar a lago"},
			expected: true,
		},
		{
			name:     "Match in title only",
			category: "mar_a_lago",
			event:    models.Event{Title: "Arrival at Mar-a-Lago"},
			expected: true,
		},
		{
			name:     "Case insensitive",
			category: "mar_a_lago",
			event:    models.Event{Location: "MAR-A-LAGO"},
			expected: true,
		},
		{
			name:     "No match",
			category: "mar_a_lago",
			event:    models.Event{Title: "Cabinet meeting", Location: "White House"},
			expected: false,
		},
		{
			name:     "Golf keyword in description",
			category: "weekday_golf",
			event:    models.Event{Description: "Motorcade to Trump golf course"},
			expected: true,
		},
		{
			name:     "Diplomat keyword",
			category: "diplomats",
			event:    models.Event{Description: "Bilateral lunch with the Taoiseach"},
			expected: true,
		},
		{
			name:     "Substring false positive is accepted",
			category: "diplomats",
			event:    models.Event{Title: "Remarks on foreign trade"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := findCategory(t, tt.category)
			if got := c.Matches(cat, tt.event); got != tt.expected {
				t.Errorf("Matches(%s) = %v, want %v", tt.category, got, tt.expected)
			}
		})
	}
}

func TestClassifier_IsWeekend(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		date     string
		expected bool
	}{
		{"2025-01-11", true},  // Saturday
		{"2025-01-12", true},  // Sunday
		{"2025-01-13", false}, // Monday
		{"2025-01-10", false}, // Friday
		{"not a date", false},
	}

	for _, tt := range tests {
		if got := c.IsWeekend(tt.date); got != tt.expected {
			t.Errorf("IsWeekend(%q) = %v, want %v", tt.date, got, tt.expected)
		}
	}
}

func TestClassifier_CountsForDay(t *testing.T) {
	c := New(DefaultCategories(), DefaultHolidays())
	golf := findCategory(t, "weekday_golf")
	maralago := findCategory(t, "mar_a_lago")

	// Saturday never counts for a weekday-gated category
	if c.CountsForDay(golf, "2025-01-11") {
		t.Errorf("Expected Saturday to be excluded for weekday_golf")
	}
	// Federal holiday (Presidents Day 2025) excluded
	if c.CountsForDay(golf, "2025-02-17") {
		t.Errorf("Expected federal holiday to be excluded for weekday_golf")
	}
	// Ordinary Tuesday counts
	if !c.CountsForDay(golf, "2025-02-18") {
		t.Errorf("Expected ordinary weekday to count for weekday_golf")
	}
	// Ungated categories count on any day
	if !c.CountsForDay(maralago, "2025-01-11") {
		t.Errorf("Expected Saturday to count for mar_a_lago")
	}
}

func TestHasLidCall(t *testing.T) {
	tests := []struct {
		name     string
		event    models.Event
		expected bool
	}{
		{
			name:     "Marker in description",
			event:    models.Event{Description: "Full Lid Called at 5:30 PM"},
			expected: true,
		},
		{
			name:     "Marker only in title does not count",
			event:    models.Event{Title: "full lid called"},
			expected: false,
		},
		{
			name:     "No marker",
			event:    models.Event{Description: "Travel pool gathered"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLidCall(tt.event); got != tt.expected {
				t.Errorf("HasLidCall() = %v, want %v", got, tt.expected)
			}
		})
	}
}
