package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/boardsync/backend/domain"
	"github.com/boardsync/backend/internal/infrastructure/archive"
	"github.com/boardsync/backend/usecase/activity"
)

// ArchiverConfig controls queue depth and retention pruning.
type ArchiverConfig struct {
	QueueSize       int
	Retention       time.Duration
	CleanupInterval time.Duration
}

// Archiver drains recorded activity entries into the durable archive and
// prunes entries past the retention horizon on a cron schedule. Archive is
// fire-and-forget so the activity log's hot path never touches disk.
type Archiver struct {
	store  *archive.Store
	queue  chan domain.ActivityEntry
	cron   *cron.Cron
	cfg    ArchiverConfig
	logger *zap.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewArchiver(store *archive.Store, cfg ArchiverConfig, logger *zap.Logger) *Archiver {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Archiver{
		store:  store,
		queue:  make(chan domain.ActivityEntry, cfg.QueueSize),
		cfg:    cfg,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.CleanupInterval.Seconds()))
	_, _ = a.cron.AddFunc(schedule, func() {
		if err := a.store.Cleanup(time.Now().Add(-a.cfg.Retention)); err != nil {
			a.logger.Error("archive cleanup failed", zap.Error(err))
		}
	})

	return a
}

// Archive enqueues an entry for persistence. Never blocks; a full queue
// drops the entry with a warning.
func (a *Archiver) Archive(entry domain.ActivityEntry) {
	if a == nil {
		return
	}
	select {
	case a.queue <- entry:
	default:
		a.logger.Warn("archive queue full, dropping entry", zap.String("entry_id", entry.ID))
	}
}

var _ activity.Sink = (*Archiver)(nil)

// Start launches the drain loop and the cleanup scheduler.
func (a *Archiver) Start() {
	if a == nil {
		return
	}
	a.cron.Start()
	go a.drain()
	a.logger.Info("activity archiver started")
}

// Stop flushes pending entries and stops the scheduler.
func (a *Archiver) Stop(ctx context.Context) {
	if a == nil {
		return
	}
	close(a.stopCh)
	select {
	case <-a.doneCh:
	case <-ctx.Done():
	}

	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	a.logger.Info("activity archiver stopped")
}

func (a *Archiver) drain() {
	defer close(a.doneCh)
	for {
		select {
		case entry := <-a.queue:
			if err := a.store.Append(entry); err != nil {
				a.logger.Error("failed to archive activity entry", zap.String("entry_id", entry.ID), zap.Error(err))
			}
		case <-a.stopCh:
			// flush whatever is still queued
			for {
				select {
				case entry := <-a.queue:
					if err := a.store.Append(entry); err != nil {
						a.logger.Error("failed to archive activity entry", zap.String("entry_id", entry.ID), zap.Error(err))
					}
				default:
					return
				}
			}
		}
	}
}
