package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	apperrors "github.com/milesgilbert/potustracker/internal/errors"
	"github.com/milesgilbert/potustracker/internal/models"
)

// FileStore implements Store on a local JSON file, used when no Redis
// instance is configured.
type FileStore struct {
	mu       sync.Mutex
	path     string
	flagPath string
}

// NewFileStore creates a file-backed backup store under dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &FileStore{
		path:     filepath.Join(dir, "backup.json"),
		flagPath: filepath.Join(dir, "auto_backup"),
	}, nil
}

// Save replaces the backup file. The write goes through a temp file and a
// rename so a crash never leaves a half-written record.
func (s *FileStore) Save(ctx context.Context, record models.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.BackupError{Operation: "save", Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.BackupError{Operation: "save", Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.BackupError{Operation: "save", Err: err}
	}
	return nil
}

// Load returns the backup record, or nil when no file exists
func (s *FileStore) Load(ctx context.Context) (*models.Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.BackupError{Operation: "load", Err: err}
	}

	var record models.Backup
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.BackupError{Operation: "load", Err: err}
	}
	return &record, nil
}

// AutoBackupEnabled reports the auto-backup flag
func (s *FileStore) AutoBackupEnabled(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.flagPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.BackupError{Operation: "flag", Err: err}
	}
	enabled, _ := strconv.ParseBool(string(data))
	return enabled, nil
}

// SetAutoBackup sets the auto-backup flag
func (s *FileStore) SetAutoBackup(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.flagPath, []byte(strconv.FormatBool(enabled)), 0o644); err != nil {
		return apperrors.BackupError{Operation: "flag", Err: err}
	}
	return nil
}

// Health checks that the backup directory is writable
func (s *FileStore) Health(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}
