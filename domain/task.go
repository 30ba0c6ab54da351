package domain

import "time"

// Status is a board column a task currently sits in. The set of valid values
// is closed at boot (it derives from the configured column names).
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Priority orders tasks within a column.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the authoritative record held by the board store. Assignee and
// creator are stored by id and resolved to UserRef snapshots at read and
// broadcast time, so a later change to a user record is never served stale.
type Task struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         Status    `json:"status"`
	Priority       Priority  `json:"priority"`
	AssignedTo     string    `json:"assigned_to"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TaskView is the delivery shape of a task: same fields, but with the user
// references resolved to snapshots.
type TaskView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         Status    `json:"status"`
	Priority       Priority  `json:"priority"`
	Assignee       UserRef   `json:"assigned_to"`
	Creator        UserRef   `json:"created_by"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
