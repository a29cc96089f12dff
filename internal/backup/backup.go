// Package backup persists the Backup Record: a single JSON blob holding the
// full normalized event list, written under one fixed key and only ever
// replaced wholesale. A second fixed key carries the auto-backup flag.
package backup

import (
	"context"

	"github.com/milesgilbert/potustracker/config"
	"github.com/milesgilbert/potustracker/internal/models"
)

const (
	// Version tags the backup record format.
	Version = "1.0"

	backupKey     = "potustracker:backup"
	autoBackupKey = "potustracker:auto_backup"
)

// Store defines the backup persistence interface
type Store interface {
	// Save replaces the backup record.
	Save(ctx context.Context, record models.Backup) error
	// Load returns the backup record, or nil when none has been saved.
	Load(ctx context.Context) (*models.Backup, error)
	// AutoBackupEnabled reports the auto-backup flag; absent means off.
	AutoBackupEnabled(ctx context.Context) (bool, error)
	// SetAutoBackup sets the auto-backup flag.
	SetAutoBackup(ctx context.Context, enabled bool) error
	// Health checks the underlying store.
	Health(ctx context.Context) error
}

// New creates a backup store: Redis-backed when a Redis URL is configured,
// a JSON file under the data directory otherwise.
func New(cfg config.BackupConfig) (Store, error) {
	if cfg.RedisURL != "" {
		return NewRedisStore(cfg.RedisURL)
	}
	return NewFileStore(cfg.Dir)
}
