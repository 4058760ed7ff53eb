package models

import "time"

// TaskEvent is a single activity log entry.
type TaskEvent struct {
	EventID     string    `json:"event_id"`
	OwnerID     int       `json:"owner_id"`
	TaskID      int       `json:"task_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // TASK_CREATED | TASK_UPDATED | TASK_DELETED | TASK_ANALYZED | DEADLINE_OVERDUE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
