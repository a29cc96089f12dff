package store

import (
	"context"

	"github.com/milesgilbert/potustracker/internal/models"
)

// Store defines the interface for event storage
type Store interface {
	UpsertEvents(ctx context.Context, events []models.Event) error
	QueryEvents(ctx context.Context, q models.EventQuery) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	EventTypes(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

// Database interface for dependency injection
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (interface{}, error)
	QueryRow(ctx context.Context, sql string, args ...any) interface{}
	Health(ctx context.Context) error
	IsConfigured() bool
}

// New creates a new store instance
func New(db Database) Store {
	if db.IsConfigured() {
		return NewPostgresStore(db)
	}
	// Fallback to in-memory store if no database
	return NewInMemoryStore()
}
