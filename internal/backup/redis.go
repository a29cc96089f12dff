package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/milesgilbert/potustracker/internal/errors"
	"github.com/milesgilbert/potustracker/internal/models"
)

// RedisStore implements Store on a Redis key-value store
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at the given URL
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// Save replaces the backup record under the fixed key
func (s *RedisStore) Save(ctx context.Context, record models.Backup) error {
	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.BackupError{Operation: "save", Err: err}
	}
	if err := s.client.Set(ctx, backupKey, data, 0).Err(); err != nil {
		return apperrors.BackupError{Operation: "save", Err: err}
	}
	return nil
}

// Load returns the backup record, or nil when the key is absent
func (s *RedisStore) Load(ctx context.Context) (*models.Backup, error) {
	data, err := s.client.Get(ctx, backupKey).Bytes()
	if errors.Is(err, redis.Nil) {
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
func (s *RedisStore) AutoBackupEnabled(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, autoBackupKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.BackupError{Operation: "flag", Err: err}
	}
	enabled, _ := strconv.ParseBool(val)
	return enabled, nil
}

// SetAutoBackup sets the auto-backup flag
func (s *RedisStore) SetAutoBackup(ctx context.Context, enabled bool) error {
	if err := s.client.Set(ctx, autoBackupKey, strconv.FormatBool(enabled), 0).Err(); err != nil {
		return apperrors.BackupError{Operation: "flag", Err: err}
	}
	return nil
}

// Health pings the Redis instance
func (s *RedisStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
