package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boardsync/backend/domain"
)

// DefaultCapacity bounds the live activity window.
const DefaultCapacity = 20

// Sink receives every recorded entry for durable retention. Implementations
// must not block: the log offers entries fire-and-forget.
type Sink interface {
	Archive(entry domain.ActivityEntry)
}

// Log is the bounded, most-recent-first activity trail. Entries are never
// mutated or individually removed; eviction is purely capacity-driven.
type Log struct {
	mu       sync.RWMutex
	entries  []domain.ActivityEntry
	capacity int
	sink     Sink
	logger   *zap.Logger
	now      func() time.Time
}

// New builds an activity log. A nil sink disables archiving.
func New(capacity int, sink Sink, logger *zap.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		entries:  make([]domain.ActivityEntry, 0, capacity),
		capacity: capacity,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// Record builds an entry, inserts it at the front, and evicts past capacity.
func (l *Log) Record(action string, actor domain.UserRef, taskID string, task *domain.TaskView) domain.ActivityEntry {
	entry := domain.ActivityEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Actor:     actor,
		TaskID:    taskID,
		Task:      task,
		Timestamp: l.now(),
	}

	l.mu.Lock()
	l.entries = append([]domain.ActivityEntry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	l.mu.Unlock()

	if l.sink != nil {
		l.sink.Archive(entry)
	}
	return entry
}

// Recent returns up to limit entries, newest first. Limits outside
// (0, capacity] are clamped to the capacity.
func (l *Log) Recent(limit int) []domain.ActivityEntry {
	if limit <= 0 || limit > l.capacity {
		limit = l.capacity
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	return append([]domain.ActivityEntry(nil), l.entries[:limit]...)
}
