// Package pipeline coordinates the load cycle: fetch the feed, fall back to
// the backup store when the feed fails or comes back empty, normalize,
// compute statistics and publish the resulting snapshot.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/milesgilbert/potustracker/config"
	"github.com/milesgilbert/potustracker/internal/backup"
	apperrors "github.com/milesgilbert/potustracker/internal/errors"
	"github.com/milesgilbert/potustracker/internal/feed"
	"github.com/milesgilbert/potustracker/internal/logger"
	"github.com/milesgilbert/potustracker/internal/metrics"
	"github.com/milesgilbert/potustracker/internal/models"
	"github.com/milesgilbert/potustracker/internal/normalizer"
	"github.com/milesgilbert/potustracker/internal/stats"
)

// FeedSource defines a pluggable feed implementation
type FeedSource interface {
	Name() string
	Fetch(ctx context.Context) (*feed.Payload, error)
}

// Store interface for event storage
type Store interface {
	UpsertEvents(ctx context.Context, events []models.Event) error
}

// Pipeline coordinates fetching, normalization, statistics and persistence
type Pipeline struct {
	source  FeedSource
	store   Store
	backups backup.Store
	calc    *stats.Calculator
	cfg     config.FeedConfig
	limiter *rate.Limiter
	sem     *semaphore.Weighted

	mu       sync.RWMutex
	snapshot *models.Snapshot
	running  bool
}

// New creates a new pipeline instance
func New(source FeedSource, store Store, backups backup.Store, calc *stats.Calculator, cfg config.FeedConfig) *Pipeline {
	p := &Pipeline{
		source:  source,
		store:   store,
		backups: backups,
		calc:    calc,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}

	logger.Info("Pipeline initialized",
		"source", source.Name(),
		"refresh_interval", cfg.RefreshInterval,
		"rate_limit", cfg.RateLimit,
	)

	return p
}

// Run loads once immediately, then on every refresh tick until the context
// is cancelled. Load failures are logged and retried on the next tick; the
// previous snapshot stays published in the meantime.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("pipeline already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	logger.Info("Starting pipeline", "source", p.source.Name())

	ticker := time.NewTicker(p.cfg.RefreshInterval)
	defer ticker.Stop()

	if err := p.Refresh(ctx); err != nil {
		logger.Error("Initial load failed", "source", p.source.Name(), "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Pipeline stopping", "source", p.source.Name())
			return ctx.Err()
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				logger.Error("Load failed", "source", p.source.Name(), "error", err)
			}
		}
	}
}

// Refresh executes a single load cycle
func (p *Pipeline) Refresh(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire semaphore: %w", err)
	}
	defer p.sem.Release(1)

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	cycleID := uuid.New().String()
	start := time.Now()

	events, source, lastUpdated, err := p.load(ctx, cycleID)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordFeedLoad(p.source.Name(), status, time.Since(start))

	if err != nil {
		return err
	}

	snap := &models.Snapshot{
		Events:      events,
		Types:       normalizer.EventTypes(events),
		Stats:       p.calc.Compute(events, time.Now()),
		Source:      source,
		LastUpdated: lastUpdated,
		LoadedAt:    time.Now().UTC(),
	}

	p.mu.Lock()
	p.snapshot = snap
	p.mu.Unlock()

	metrics.RecordEventsLoaded(source, len(events))

	if err := p.store.UpsertEvents(ctx, events); err != nil {
		logger.Error("Failed to persist events", "cycle_id", cycleID, "error", err)
	}

	p.autoBackup(ctx, cycleID, snap)

	logger.Info("Load cycle completed",
		"cycle_id", cycleID,
		"source", source,
		"events", len(events),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// load fetches the feed and falls back to the backup store when the feed
// fails or yields no items. Backup events were normalized before they were
// saved, so only the feed path runs normalization.
func (p *Pipeline) load(ctx context.Context, cycleID string) ([]models.Event, string, time.Time, error) {
	payload, err := p.source.Fetch(ctx)
	if err == nil && len(payload.Items) == 0 {
		err = apperrors.ErrNoEvents
	}
	if err == nil {
		return normalizer.Normalize(payload.Items), "feed", payload.LastUpdated, nil
	}

	logger.Warn("Feed unavailable, trying backup",
		"cycle_id", cycleID,
		"source", p.source.Name(),
		"error", err,
	)

	record, backupErr := p.backups.Load(ctx)
	if backupErr != nil {
		metrics.RecordBackup("load", "error")
		return nil, "", time.Time{}, apperrors.PipelineError{
			Source: p.source.Name(),
			Stage:  "backup",
			Err:    backupErr,
		}
	}
	if record == nil || len(record.Events) == 0 {
		metrics.RecordBackup("load", "empty")
		return nil, "", time.Time{}, apperrors.PipelineError{
			Source: p.source.Name(),
			Stage:  "backup",
			Err:    apperrors.ErrBackupEmpty,
		}
	}

	metrics.RecordBackup("load", "success")
	logger.Info("Loaded events from backup",
		"cycle_id", cycleID,
		"events", len(record.Events),
		"backup_last_updated", record.LastUpdated,
	)

	return record.Events, "backup", record.LastUpdated, nil
}

// autoBackup saves a backup after a successful feed load when the flag is
// on. Failures here are logged and never fail the load cycle.
func (p *Pipeline) autoBackup(ctx context.Context, cycleID string, snap *models.Snapshot) {
	if snap.Source != "feed" || len(snap.Events) == 0 {
		return
	}

	enabled, err := p.backups.AutoBackupEnabled(ctx)
	if err != nil {
		logger.Warn("Failed to read auto-backup flag", "cycle_id", cycleID, "error", err)
		return
	}
	if !enabled {
		return
	}

	if err := p.saveBackup(ctx, snap); err != nil {
		logger.Warn("Auto-backup failed", "cycle_id", cycleID, "error", err)
		return
	}
	logger.Debug("Auto-backup saved", "cycle_id", cycleID, "events", len(snap.Events))
}

// BackupNow saves the current snapshot to the backup store
func (p *Pipeline) BackupNow(ctx context.Context) error {
	snap := p.Snapshot()
	if snap == nil {
		return apperrors.ErrNotLoaded
	}
	if len(snap.Events) == 0 {
		return apperrors.ErrNoEvents
	}
	return p.saveBackup(ctx, snap)
}

func (p *Pipeline) saveBackup(ctx context.Context, snap *models.Snapshot) error {
	record := models.Backup{
		Events:      snap.Events,
		LastUpdated: snap.LastUpdated,
		Version:     backup.Version,
	}
	if err := p.backups.Save(ctx, record); err != nil {
		metrics.RecordBackup("save", "error")
		return err
	}
	metrics.RecordBackup("save", "success")
	return nil
}

// Snapshot returns the current snapshot, or nil before the first
// successful load
func (p *Pipeline) Snapshot() *models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// IsRunning returns whether the pipeline loop is currently running
func (p *Pipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}
