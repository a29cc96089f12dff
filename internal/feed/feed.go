// Package feed fetches the schedule feed and extracts raw event items from
// the payload. The upstream worker has emitted several payload shapes over
// time, so extraction is deliberately tolerant: the first recognized shape
// wins.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	apperrors "github.com/milesgilbert/potustracker/internal/errors"
)

// Payload is the result of one feed fetch: the raw items plus the optional
// display-only last-updated timestamp from the payload metadata.
type Payload struct {
	Items       []map[string]any
	LastUpdated time.Time // zero when the payload carries no meta
}

// Source fetches the schedule feed over HTTP
type Source struct {
	name   string
	url    string
	client *http.Client
}

// New creates a feed source for the given URL
func New(name, url string, timeout time.Duration) *Source {
	return &Source{
		name: name,
		url:  url,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return s.name
}

// Fetch retrieves and decodes the feed. Transport failures, non-2xx
// responses and undecodable bodies are all *errors.FeedError; the caller
// decides whether to fall back to a backup.
func (s *Source) Fetch(ctx context.Context) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, apperrors.FeedError{URL: s.url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", "potustracker/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.FeedError{URL: s.url, Err: fmt.Errorf("fetch feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.FeedError{URL: s.url, Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.FeedError{URL: s.url, Err: fmt.Errorf("read body: %w", err)}
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, apperrors.FeedError{URL: s.url, Err: fmt.Errorf("parse JSON: %w", err)}
	}

	return &Payload{
		Items:       ExtractItems(data),
		LastUpdated: extractLastUpdated(data),
	}, nil
}

// ExtractItems pulls event-like items out of a decoded payload. Recognized
// shapes, first match wins: a top-level array; an object with a "data"
// array; any object whose array values hold objects carrying a title or a
// date.
func ExtractItems(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		return objectItems(v, false)
	case map[string]any:
		if inner, ok := v["data"].([]any); ok {
			return objectItems(inner, false)
		}
		var items []map[string]any
		for _, value := range v {
			if arr, ok := value.([]any); ok {
				items = append(items, objectItems(arr, true)...)
			}
		}
		return items
	}
	return nil
}

// objectItems keeps the object-typed elements of an array. When filtered,
// only items carrying a non-empty title or date survive; the bare-object
// payload shape uses this to skip non-event arrays.
func objectItems(arr []any, filtered bool) []map[string]any {
	var items []map[string]any
	for _, elem := range arr {
		item, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		if filtered && !hasNonEmpty(item, "title") && !hasNonEmpty(item, "date") {
			continue
		}
		items = append(items, item)
	}
	return items
}

func hasNonEmpty(item map[string]any, key string) bool {
	v, ok := item[key].(string)
	return ok && v != ""
}

var lastUpdatedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// extractLastUpdated reads meta.last_updated when the payload has one.
func extractLastUpdated(data any) time.Time {
	obj, ok := data.(map[string]any)
	if !ok {
		return time.Time{}
	}
	meta, ok := obj["meta"].(map[string]any)
	if !ok {
		return time.Time{}
	}
	raw, ok := meta["last_updated"].(string)
	if !ok {
		return time.Time{}
	}
	for _, layout := range lastUpdatedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
