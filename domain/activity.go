package domain

import "time"

// ActivityEntry is an immutable audit record created for every accepted
// mutation. Deletions carry the task id only; other actions embed a snapshot
// of the task as it stood when the entry was written.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     UserRef   `json:"actor"`
	TaskID    string    `json:"task_id"`
	Task      *TaskView `json:"task,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
