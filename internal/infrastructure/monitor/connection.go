package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/boardsync/backend/internal/infrastructure/archive"
)

// Monitor periodically probes whichever optional backends were configured.
// Nil handles mean "not configured" and never degrade health.
type Monitor struct {
	pg      *pgxpool.Pool
	redis   *redislib.Client
	archive *archive.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, arch *archive.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		archive:  arch,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Postgres.Healthy() && m.status.Redis.Healthy() && m.status.Archive.Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	archiveOK, archiveSize := m.checkArchive()
	status := Status{
		Postgres:    Backend{Enabled: m.pg != nil, Online: m.checkPostgres()},
		Redis:       Backend{Enabled: m.redis != nil, Online: m.checkRedis()},
		Archive:     Backend{Enabled: m.archive != nil, Online: archiveOK},
		ArchiveSize: archiveSize,
		LastCheck:   time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkPostgres() bool {
	if m.pg == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.pg.Ping(ctx); err != nil {
		m.logger.Warn("postgres health check failed", zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.redis.Ping(ctx).Err(); err != nil {
		m.logger.Warn("redis health check failed", zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkArchive() (bool, int) {
	if m.archive == nil {
		return false, 0
	}
	size, err := m.archive.Size()
	if err != nil {
		m.logger.Warn("archive health check failed", zap.Error(err))
		return false, 0
	}
	return true, size
}
