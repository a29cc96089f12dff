package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/milesgilbert/potustracker/internal/models"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db Database
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db Database) *PostgresStore {
	return &PostgresStore{db: db}
}

// UpsertEvents inserts or updates events in the database
func (s *PostgresStore) UpsertEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	// Use UPSERT (INSERT ... ON CONFLICT DO UPDATE)
	query := `
		INSERT INTO events (
			id, date, time_start, time_end, title, location, description,
			type, url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			time_start = EXCLUDED.time_start,
			time_end = EXCLUDED.time_end,
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			type = EXCLUDED.type,
			url = EXCLUDED.url,
			updated_at = NOW()
	`

	for _, event := range events {
		err := s.db.Exec(ctx, query,
			event.ID, event.Date, event.TimeStart, event.TimeEnd,
			event.Title, event.Location, event.Description,
			event.Type, event.URL,
		)
		if err != nil {
			return fmt.Errorf("upsert event %s: %w", event.ID, err)
		}
	}

	return nil
}

// QueryEvents retrieves events based on query parameters
func (s *PostgresStore) QueryEvents(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
	query := `
		SELECT id, date, time_start, time_end, title, location, description,
			   type, url
		FROM events
		WHERE 1=1
	`

	var args []interface{}
	argIndex := 1

	// Build WHERE conditions
	if q.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+q.Search+"%")
		argIndex++
	}

	if len(q.Types) > 0 {
		query += fmt.Sprintf(" AND type = ANY($%d)", argIndex)
		args = append(args, q.Types)
		argIndex++
	}

	// Canonical dates are YYYY-MM-DD, so text comparison orders correctly.
	if q.Since != "" {
		query += fmt.Sprintf(" AND split_part(date, 'T', 1) >= $%d", argIndex)
		args = append(args, q.Since)
		argIndex++
	}

	if q.Until != "" {
		query += fmt.Sprintf(" AND split_part(date, 'T', 1) <= $%d", argIndex)
		args = append(args, q.Until)
		argIndex++
	}

	// Add ordering
	query += " ORDER BY date DESC, NULLIF(time_start, '') DESC NULLS LAST, id"

	// Add limit and offset
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
		argIndex++
	}

	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, q.Offset)
	}

	rowsInterface, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	rows, ok := rowsInterface.(pgx.Rows)
	if !ok {
		return nil, fmt.Errorf("invalid rows type")
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID, &event.Date, &event.TimeStart, &event.TimeEnd,
			&event.Title, &event.Location, &event.Description,
			&event.Type, &event.URL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}

// GetEvent retrieves a single event by ID
func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `
		SELECT id, date, time_start, time_end, title, location, description,
			   type, url
		FROM events
		WHERE id = $1
	`

	rowInterface := s.db.QueryRow(ctx, query, id)
	row, ok := rowInterface.(pgx.Row)
	if !ok {
		return nil, fmt.Errorf("invalid row type")
	}

	var event models.Event
	err := row.Scan(
		&event.ID, &event.Date, &event.TimeStart, &event.TimeEnd,
		&event.Title, &event.Location, &event.Description,
		&event.Type, &event.URL,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}

	return &event, nil
}

// EventTypes returns the distinct non-empty event types, sorted
func (s *PostgresStore) EventTypes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT type FROM events WHERE type <> '' ORDER BY type`

	rowsInterface, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query event types: %w", err)
	}

	rows, ok := rowsInterface.(pgx.Rows)
	if !ok {
		return nil, fmt.Errorf("invalid rows type")
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan event type: %w", err)
		}
		types = append(types, t)
	}

	return types, nil
}

// Health checks the database connection
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}
