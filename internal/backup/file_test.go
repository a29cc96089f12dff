package backup

import (
	"context"
	"testing"
	"time"

	"github.com/milesgilbert/potustracker/internal/models"
)

func TestFileStore_SaveLoad(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	ctx := context.Background()

	record := models.Backup{
		Events: []models.Event{
			{ID: "a1", Date: "2025-03-10", Title: "Briefing"},
			{ID: "b2", Date: "2025-03-09", Title: "Travel"},
		},
		LastUpdated: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Version:     Version,
	}
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Expected no error on save, got %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Expected no error on load, got %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a record, got nil")
	}
	if len(loaded.Events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(loaded.Events))
	}
	if loaded.Events[0].ID != "a1" || loaded.Events[1].ID != "b2" {
		t.Errorf("Expected event order preserved, got %+v", loaded.Events)
	}
}

func TestFileStore_SaveReplaces(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	ctx := context.Background()

	first := models.Backup{Events: []models.Event{{ID: "a1", Date: "2025-03-10"}}, Version: Version}
	second := models.Backup{Events: []models.Event{{ID: "b2", Date: "2025-03-11"}}, Version: Version}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(loaded.Events) != 1 || loaded.Events[0].ID != "b2" {
		t.Errorf("Expected the second record to replace the first, got %+v", loaded.Events)
	}
}

func TestFileStore_LoadAbsent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Expected no error for absent record, got %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil record, got %+v", loaded)
	}
}

func TestFileStore_AutoBackupFlag(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	ctx := context.Background()

	enabled, err := store.AutoBackupEnabled(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if enabled {
		t.Error("Expected auto-backup off by default")
	}

	if err := store.SetAutoBackup(ctx, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	enabled, _ = store.AutoBackupEnabled(ctx)
	if !enabled {
		t.Error("Expected auto-backup on after enabling")
	}
}
