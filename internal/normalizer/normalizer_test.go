package normalizer

import (
	"testing"
)

func TestNormalize_FieldPreference(t *testing.T) {
	items := []map[string]any{
		{
			"startDate": "2025-03-10",
			"time":      "09:30",
			"summary":   "Departure from the South Lawn",
			"venue":     "South Lawn",
			"details":   "Marine One departure",
			"source":    "pool_report",
			"link":      "https://example.com/1",
		},
	}

	events := Normalize(items)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.Date != "2025-03-10" {
		t.Errorf("Expected date 2025-03-10, got %s", e.Date)
	}
	if e.TimeStart != "09:30" {
		t.Errorf("Expected timeStart from 'time' key, got %q", e.TimeStart)
	}
	if e.Title != "Departure from the South Lawn" {
		t.Errorf("Expected title from 'summary' key, got %q", e.Title)
	}
	if e.Location != "South Lawn" {
		t.Errorf("Expected location from 'venue' key, got %q", e.Location)
	}
	if e.Description != "Marine One departure" {
		t.Errorf("Expected description from 'details' key, got %q", e.Description)
	}
	if e.Type != "pool_report" {
		t.Errorf("Expected type from 'source' key, got %q", e.Type)
	}
	if e.URL != "https://example.com/1" {
		t.Errorf("Expected url from 'link' key, got %q", e.URL)
	}
	if e.ID == "" {
		t.Errorf("Expected event ID to be set")
	}
}

func TestNormalize_PreferenceOrderWins(t *testing.T) {
	items := []map[string]any{
		{
			"date":      "2025-03-10",
			"startDate": "2025-03-11",
			"title":     "Primary title",
			"summary":   "Secondary title",
		},
	}

	events := Normalize(items)
	if events[0].Date != "2025-03-10" {
		t.Errorf("Expected 'date' to win over 'startDate', got %s", events[0].Date)
	}
	if events[0].Title != "Primary title" {
		t.Errorf("Expected 'title' to win over 'summary', got %s", events[0].Title)
	}
}

func TestNormalize_DropsDatelessRecords(t *testing.T) {
	items := []map[string]any{
		{"date": "2025-03-10", "title": "Has a date"},
		{"title": "No date at all"},
		{"startDate": "2025-03-11", "title": "Alternate date key"},
		{"time": "10:00", "description": "Also dateless"},
	}

	events := Normalize(items)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events (4 input - 2 dateless), got %d", len(events))
	}
}

func TestNormalize_Defaults(t *testing.T) {
	items := []map[string]any{
		{"date": "2025-03-10"},
	}

	events := Normalize(items)
	e := events[0]

	if e.Title != DefaultTitle {
		t.Errorf("Expected default title %q, got %q", DefaultTitle, e.Title)
	}
	if e.TimeStart != "" || e.TimeEnd != "" || e.Location != "" || e.Description != "" || e.Type != "" || e.URL != "" {
		t.Errorf("Expected empty defaults, got %+v", e)
	}
}

func TestNormalize_SortsNewestFirst(t *testing.T) {
	items := []map[string]any{
		{"date": "2025-01-05", "title": "oldest"},
		{"date": "2025-03-10", "title": "newest"},
		{"date": "2025-02-14", "title": "middle"},
	}

	events := Normalize(items)
	got := []string{events[0].Title, events[1].Title, events[2].Title}
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestNormalize_IgnoresNonStringValues(t *testing.T) {
	items := []map[string]any{
		{"date": "2025-03-10", "title": 42, "summary": "Fallback title"},
	}

	events := Normalize(items)
	if events[0].Title != "Fallback title" {
		t.Errorf("Expected non-string title to be skipped, got %q", events[0].Title)
	}
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "Canonical input round-trips",
			in:       "2025-03-10",
			expected: "2025-03-10",
		},
		{
			name:     "Date with time component",
			in:       "2025-03-10T08:00:00",
			expected: "2025-03-10",
		},
		{
			name:     "RFC3339 UTC",
			in:       "2025-03-10T08:00:00Z",
			expected: "2025-03-10",
		},
		{
			name:     "Unparseable kept verbatim",
			in:       "sometime next week",
			expected: "sometime next week",
		},
		{
			name:     "Unpadded components zero-padded",
			in:       "2025-3-9",
			expected: "2025-03-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalDate(tt.in); got != tt.expected {
				t.Errorf("CanonicalDate(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestCanonicalDate_Idempotent(t *testing.T) {
	dates := []string{"2025-01-01", "2024-12-31", "2025-07-04"}
	for _, d := range dates {
		once := CanonicalDate(d)
		twice := CanonicalDate(once)
		if once != d || twice != d {
			t.Errorf("Expected %q to round-trip, got %q then %q", d, once, twice)
		}
	}
}

func TestEventTypes(t *testing.T) {
	events := Normalize([]map[string]any{
		{"date": "2025-03-10", "type": "pool_report"},
		{"date": "2025-03-10", "type": "official_schedule"},
		{"date": "2025-03-11", "type": "pool_report"},
		{"date": "2025-03-11"},
	})

	types := EventTypes(events)
	if len(types) != 2 {
		t.Fatalf("Expected 2 distinct types, got %v", types)
	}
}
