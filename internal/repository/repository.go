package repository

import (
	"context"
	"database/sql"
	"time"

	"taskplanner/internal/models"
)

type Authorization interface {
	Create(user models.User) (int, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

// TaskFilter narrows List results. Zero values mean "no filter".
type TaskFilter struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

// TaskRepo stores tasks scoped to their owning user.
type TaskRepo interface {
	Create(ctx context.Context, t models.Task) (int, error)
	GetByID(ctx context.Context, ownerID, id int) (*models.Task, error)
	List(ctx context.Context, ownerID int, f TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) error
	Delete(ctx context.Context, ownerID, id int) error
	CountByStatus(ctx context.Context, ownerID int) (map[string]int, error)
	ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error)
}

// EventRepo is the append-only activity log with filtered access.
type EventRepo interface {
	Append(ctx context.Context, e models.TaskEvent) error
	List(ctx context.Context, ownerID int, from, to time.Time, typ string) ([]models.TaskEvent, error)
}

type Repository struct {
	Tasks  TaskRepo
	Events EventRepo
	Auth   Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Tasks:  NewTaskSQLite(db),
		Events: NewEventSQLite(db),
		Auth:   NewUserRepository(db),
	}
}
