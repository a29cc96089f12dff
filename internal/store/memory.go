package store

import (
	"context"
	"sort"
	"sync"

	"github.com/milesgilbert/potustracker/internal/models"
)

// InMemoryStore implements Store using in-memory storage
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string]models.Event
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events: make(map[string]models.Event),
	}
}

// UpsertEvents stores events in memory
func (s *InMemoryStore) UpsertEvents(ctx context.Context, events []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range events {
		s.events[event.ID] = event
	}

	return nil
}

// QueryEvents retrieves events from memory based on query parameters
func (s *InMemoryStore) QueryEvents(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Event
	for _, event := range s.events {
		if q.Matches(event) {
			result = append(result, event)
		}
	}

	// Newest first; within a day, later start times first with untimed
	// events last.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		if result[i].TimeStart != result[j].TimeStart {
			if result[i].TimeStart == "" {
				return false
			}
			if result[j].TimeStart == "" {
				return true
			}
			return result[i].TimeStart > result[j].TimeStart
		}
		return result[i].ID < result[j].ID
	})

	// Apply limit and offset
	if q.Offset > 0 && q.Offset < len(result) {
		result = result[q.Offset:]
	} else if q.Offset >= len(result) && q.Offset > 0 {
		result = []models.Event{}
	}

	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}

	return result, nil
}

// GetEvent retrieves a single event by ID
func (s *InMemoryStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if event, exists := s.events[id]; exists {
		return &event, nil
	}

	return nil, nil
}

// EventTypes returns the distinct non-empty event types, sorted
func (s *InMemoryStore) EventTypes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, event := range s.events {
		if event.Type == "" || seen[event.Type] {
			continue
		}
		seen[event.Type] = true
		types = append(types, event.Type)
	}
	sort.Strings(types)

	return types, nil
}

// Health always returns nil for in-memory store
func (s *InMemoryStore) Health(ctx context.Context) error {
	return nil
}
