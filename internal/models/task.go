package models

import "time"

// Task statuses.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task categories assigned manually or by the advisor.
const (
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryHealth   = "health"
	CategoryLearning = "learning"
	CategoryOther    = "other"
)

// Limits for the advisor's duration estimate, in minutes.
const (
	MinEstimatedMinutes = 1
	MaxEstimatedMinutes = 1440 // one day
)

// Task is a single planner entry owned by a user.
type Task struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`   // new | in_progress | done
	Priority         string     `json:"priority"` // low | medium | high
	Category         string     `json:"category"` // work | personal | health | learning | other
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	OwnerID          int        `json:"owner_id"`
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known task category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryLearning, CategoryOther:
		return true
	}
	return false
}
