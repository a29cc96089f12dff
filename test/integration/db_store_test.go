//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/milesgilbert/potustracker/config"
	"github.com/milesgilbert/potustracker/internal/database"
	"github.com/milesgilbert/potustracker/internal/models"
	"github.com/milesgilbert/potustracker/internal/store"
)

// applyMigrations reads scripts/init.sql and executes it against the provided pool
func applyMigrations(ctx context.Context, pool *pgxpool.Pool, t *testing.T) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	// tests run from the package dir; locate repo root by walking up to find go.mod
	root := cwd
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			break
		}
		root = filepath.Dir(root)
	}
	path := filepath.Join(root, "scripts", "init.sql")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read init.sql: %v", err)
	}
	if _, err := pool.Exec(ctx, string(b)); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func TestPostgresStore_WithContainer(t *testing.T) {
	if !containersAvailable() {
		t.Skip("no container runtime available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15-alpine",
		Env: map[string]string{
			"POSTGRES_DB":       "potustracker",
			"POSTGRES_USER":     "potustracker",
			"POSTGRES_PASSWORD": "password",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start container: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	dsn := "postgres://potustracker:password@" + host + ":" + port.Port() + "/potustracker?sslmode=disable"

	cfg := config.DatabaseConfig{
		URL:             dsn,
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	defer db.Close(ctx)

	// Apply migrations
	applyMigrations(ctx, dpoolAccessor(db), t)

	st := store.New(db)

	// Upsert and query
	events := []models.Event{{
		ID:          "int-event-1",
		Date:        "2025-03-10",
		TimeStart:   "09:00",
		Title:       "Integration Test Briefing",
		Location:    "Oval Office",
		Description: "Inserted via integration test",
		Type:        "potus_schedule",
		URL:         "https://example.com/event/1",
	}}
	if err := st.UpsertEvents(ctx, events); err != nil {
		t.Fatalf("UpsertEvents: %v", err)
	}

	res, err := st.QueryEvents(ctx, models.EventQuery{Types: []string{"potus_schedule"}, Limit: 10})
	if err != nil {
		t.Fatalf("QueryEvents: %v", err)
	}
	if len(res) == 0 {
		t.Fatalf("expected at least 1 event, got 0")
	}

	one, err := st.GetEvent(ctx, "int-event-1")
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if one == nil || one.ID != "int-event-1" {
		t.Fatalf("unexpected event: %+v", one)
	}

	// Upsert with the same ID updates in place
	events[0].Title = "Updated Briefing"
	if err := st.UpsertEvents(ctx, events); err != nil {
		t.Fatalf("UpsertEvents update: %v", err)
	}
	one, err = st.GetEvent(ctx, "int-event-1")
	if err != nil {
		t.Fatalf("GetEvent after update: %v", err)
	}
	if one == nil || one.Title != "Updated Briefing" {
		t.Fatalf("expected updated title, got %+v", one)
	}

	types, err := st.EventTypes(ctx)
	if err != nil {
		t.Fatalf("EventTypes: %v", err)
	}
	if len(types) != 1 || types[0] != "potus_schedule" {
		t.Fatalf("unexpected types: %v", types)
	}
}
