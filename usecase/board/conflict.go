package board

import (
	"time"

	"github.com/boardsync/backend/domain"
)

var conflictFields = []string{"title", "description", "status", "priority"}

// ConflictGuard rejects an update that plausibly races with a recent edit by
// a different user. It is a wall-clock heuristic, not a version scheme: a
// task untouched for longer than the window, or touched twice by the same
// user, is never flagged.
type ConflictGuard struct {
	Window time.Duration
}

// InConflict reports whether an update by editorID at time now contends with
// the task's most recent edit.
func (g ConflictGuard) InConflict(task *domain.Task, editorID string, now time.Time) bool {
	if task == nil || task.LastModifiedBy == "" {
		return false
	}
	if task.LastModifiedBy == editorID {
		return false
	}
	return now.Sub(task.UpdatedAt) < g.Window
}

// Fields returns the field names considered in contention.
func (g ConflictGuard) Fields() []string {
	return append([]string(nil), conflictFields...)
}
