// Package normalizer maps arbitrary upstream schedule items onto the
// canonical Event schema. Upstream records are inconsistent about field
// names, so each canonical attribute is resolved from an ordered preference
// list of candidate keys.
package normalizer

import (
	"sort"
	"strings"
	"time"

	"github.com/milesgilbert/potustracker/internal/models"
	"github.com/milesgilbert/potustracker/pkg/utils"
)

// DefaultTitle is used when a record carries no title-bearing field.
const DefaultTitle = "Untitled Event"

// Candidate keys per canonical attribute, in preference order.
var (
	dateKeys        = []string{"date", "startDate", "start"}
	timeStartKeys   = []string{"timeStart", "time", "startTime"}
	timeEndKeys     = []string{"timeEnd", "endTime"}
	titleKeys       = []string{"title", "summary", "name"}
	locationKeys    = []string{"location", "venue"}
	descriptionKeys = []string{"description", "details"}
	typeKeys        = []string{"type", "source", "category"}
	urlKeys         = []string{"url", "link"}
)

// Layouts tried when canonicalizing a date that already carries, or has been
// given, a time component.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04",
	"2006-1-2T15:04:05", // upstream occasionally emits unpadded components
}

// Normalize converts raw feed items into canonical events. Items without any
// date-bearing field are dropped silently; a date that cannot be parsed is
// kept verbatim and never aborts the batch. The result is sorted newest
// date first.
func Normalize(items []map[string]any) []models.Event {
	events := make([]models.Event, 0, len(items))

	for _, item := range items {
		date := firstString(item, dateKeys)
		if date == "" {
			continue
		}

		event := models.Event{
			Date:        CanonicalDate(date),
			TimeStart:   firstString(item, timeStartKeys),
			TimeEnd:     firstString(item, timeEndKeys),
			Title:       firstString(item, titleKeys),
			Location:    firstString(item, locationKeys),
			Description: firstString(item, descriptionKeys),
			Type:        firstString(item, typeKeys),
			URL:         firstString(item, urlKeys),
		}
		if event.Title == "" {
			event.Title = DefaultTitle
		}
		event.ID = utils.HashString(event.Date + "|" + event.Title + "|" + event.TimeStart + "|" + event.URL)

		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})

	return events
}

// CanonicalDate re-emits a date string as zero-padded YYYY-MM-DD. A noon
// time token is appended before parsing when the input has no time
// component, so the calendar day survives any timezone offset in the input.
// Unparseable input is returned verbatim.
func CanonicalDate(raw string) string {
	s := raw
	if !strings.Contains(s, "T") {
		s += "T12:00:00"
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// EventTypes returns the distinct non-empty event types, in first-seen order.
func EventTypes(events []models.Event) []string {
	seen := make(map[string]bool)
	var types []string
	for _, event := range events {
		if event.Type != "" && !seen[event.Type] {
			seen[event.Type] = true
			types = append(types, event.Type)
		}
	}
	return types
}

// firstString returns the first non-empty string value among the candidate
// keys. Non-string values are ignored.
func firstString(item map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := item[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
