package service

import (
	"context"
	"time"

	"taskplanner/internal/config"
	"taskplanner/internal/models"
	"taskplanner/internal/repository"
)

type Authorization interface {
	SignUp(p SignUpParams) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
	CurrentUser(id int) (*models.User, error)
}

// Tasks exposes owner-scoped task CRUD and the board summary.
type Tasks interface {
	Create(ctx context.Context, ownerID int, p TaskCreateParams) (*models.Task, error)
	List(ctx context.Context, ownerID int, f repository.TaskFilter) ([]models.Task, error)
	GetByID(ctx context.Context, ownerID, id int) (*models.Task, error)
	Update(ctx context.Context, ownerID, id int, p TaskUpdateParams) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id int) error
	Summary(ctx context.Context, ownerID int) (BoardSummary, error)
}

// Advisor derives a category and a duration estimate for a task
// description, via the external model or local heuristics. These
// operations degrade instead of failing, so they return no error.
type Advisor interface {
	Categorize(ctx context.Context, text string) string
	EstimateMinutes(ctx context.Context, text string) int
	Analyze(ctx context.Context, description, title string) Analysis
}

// Activity exposes the append-only per-user event log.
type Activity interface {
	List(ctx context.Context, ownerID int, f ActivityFilter) ([]models.TaskEvent, error)
	Record(ctx context.Context, e models.TaskEvent) error
}

// Reminder runs the background loop that reports overdue deadlines.
// Stop via context cancellation in main() for graceful shutdown.
type Reminder interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Tasks
	Advisor
	Activity
	Reminder
	Authorization
}

// NewService wires the repository layer and configuration into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config) *Service {
	advisor := NewAdvisorService(cfg.AI)
	return &Service{
		Tasks:         NewTaskService(repos.Tasks, repos.Events, advisor),
		Advisor:       advisor,
		Activity:      NewActivityService(repos.Events),
		Reminder:      NewReminderService(repos.Tasks, repos.Events),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
