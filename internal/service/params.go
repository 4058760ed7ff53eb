package service

import "time"

// SignUpParams is the validated registration input.
type SignUpParams struct {
	Email    string
	Username string
	Password string
	FullName string
}

// TaskCreateParams carries new-task fields; zero enum values fall back to
// defaults (status "new", priority "medium", category "other").
type TaskCreateParams struct {
	Title            string
	Description      string
	Status           string
	Priority         string
	Category         string
	EstimatedMinutes *int
	Deadline         *time.Time
}

// TaskUpdateParams carries partial updates; nil fields stay unchanged.
type TaskUpdateParams struct {
	Title            *string
	Description      *string
	Status           *string
	Priority         *string
	Category         *string
	EstimatedMinutes *int
	Deadline         *time.Time
}

// ActivityFilter supports history filtering by time range and type.
type ActivityFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "TASK_CREATED", "TASK_UPDATED", "TASK_DELETED", "TASK_ANALYZED", "DEADLINE_OVERDUE"
}

// BoardSummary is the snapshot streamed over the WebSocket endpoint.
type BoardSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ObservedAt time.Time      `json:"observed_at"`
}

// Analysis is the advisory wrapper's combined answer.
type Analysis struct {
	Category          string   `json:"category"`
	EstimatedMinutes  int      `json:"estimated_minutes"`
	Subtasks          []string `json:"subtasks"`
	SuggestedPriority string   `json:"suggested_priority"`
	Tips              []string `json:"tips,omitempty"`
}
