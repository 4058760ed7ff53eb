package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100

	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// Validation errors surfaced to the caller as bad requests.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTitle       = fmt.Errorf("invalid title: must be 1 to %d characters", maxTitleLen)
	ErrInvalidDescription = fmt.Errorf("invalid description: must be at most %d characters", maxDescriptionLen)
	ErrInvalidStatus      = errors.New("invalid status: must be new, in_progress, or done")
	ErrInvalidPriority    = errors.New("invalid priority: must be low, medium, or high")
	ErrInvalidCategory    = errors.New("invalid category: must be work, personal, health, learning, or other")
	ErrInvalidEstimate    = fmt.Errorf("invalid estimated_minutes: must be between %d and %d",
		models.MinEstimatedMinutes, models.MaxEstimatedMinutes)
)

// TaskService implements owner-scoped task CRUD with advisory enrichment.
type TaskService struct {
	taskRepo  repository.TaskRepo
	eventRepo repository.EventRepo
	advisor   Advisor
}

func NewTaskService(taskRepo repository.TaskRepo, eventRepo repository.EventRepo, advisor Advisor) *TaskService {
	return &TaskService{taskRepo: taskRepo, eventRepo: eventRepo, advisor: advisor}
}

var _ Tasks = (*TaskService)(nil)

// Create stores a new task for ownerID. Missing enum fields get defaults;
// when a description is present, the advisor fills in a missing category
// or estimate. Advisory failures never fail creation.
func (s *TaskService) Create(ctx context.Context, ownerID int, p TaskCreateParams) (*models.Task, error) {
	if p.Status == "" {
		p.Status = models.StatusNew
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if p.Category == "" {
		p.Category = models.CategoryOther
	}
	if err := validateTaskFields(p.Title, p.Description, p.Status, p.Priority, p.Category, p.EstimatedMinutes); err != nil {
		return nil, err
	}

	if p.Description != "" {
		if p.Category == models.CategoryOther {
			p.Category = s.advisor.Categorize(ctx, p.Description)
		}
		if p.EstimatedMinutes == nil {
			minutes := s.advisor.EstimateMinutes(ctx, p.Description)
			p.EstimatedMinutes = &minutes
		}
	}

	now := time.Now().UTC()
	t := models.Task{
		Title:            p.Title,
		Description:      p.Description,
		Status:           p.Status,
		Priority:         p.Priority,
		Category:         p.Category,
		EstimatedMinutes: p.EstimatedMinutes,
		Deadline:         p.Deadline,
		CreatedAt:        now,
		UpdatedAt:        now,
		OwnerID:          ownerID,
	}

	id, err := s.taskRepo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id

	s.appendEvent(ctx, ownerID, id, "TASK_CREATED", "Task created: "+t.Title, map[string]any{
		"category": t.Category,
		"priority": t.Priority,
	})
	return &t, nil
}

// List returns the owner's tasks with a normalized filter.
func (s *TaskService) List(ctx context.Context, ownerID int, f repository.TaskFilter) ([]models.Task, error) {
	if f.Status != "" && !models.ValidStatus(f.Status) {
		return nil, ErrInvalidStatus
	}
	if f.Category != "" && !models.ValidCategory(f.Category) {
		return nil, ErrInvalidCategory
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = defaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.taskRepo.List(ctx, ownerID, f)
}

// GetByID returns the owner's task or ErrTaskNotFound. Tasks owned by
// other users are indistinguishable from missing ones.
func (s *TaskService) GetByID(ctx context.Context, ownerID, id int) (*models.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// Update applies the non-nil fields of p to the owner's task.
func (s *TaskService) Update(ctx context.Context, ownerID, id int, p TaskUpdateParams) (*models.Task, error) {
	t, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.EstimatedMinutes != nil {
		t.EstimatedMinutes = p.EstimatedMinutes
	}
	if p.Deadline != nil {
		t.Deadline = p.Deadline
	}
	if err := validateTaskFields(t.Title, t.Description, t.Status, t.Priority, t.Category, t.EstimatedMinutes); err != nil {
		return nil, err
	}

	t.UpdatedAt = time.Now().UTC()
	if err := s.taskRepo.Update(ctx, *t); err != nil {
		return nil, err
	}

	s.appendEvent(ctx, ownerID, id, "TASK_UPDATED", "Task updated: "+t.Title, map[string]any{
		"status": t.Status,
	})
	return t, nil
}

// Delete removes the owner's task.
func (s *TaskService) Delete(ctx context.Context, ownerID, id int) error {
	t, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.appendEvent(ctx, ownerID, id, "TASK_DELETED", "Task deleted: "+t.Title, nil)
	return nil
}

// Summary snapshots the owner's task counts per status.
func (s *TaskService) Summary(ctx context.Context, ownerID int) (BoardSummary, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, ownerID)
	if err != nil {
		return BoardSummary{}, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return BoardSummary{
		Total:      total,
		ByStatus:   counts,
		ObservedAt: time.Now().UTC(),
	}, nil
}

// appendEvent records task activity. The log is best-effort: a failed
// append must not undo or fail the mutation it describes.
func (s *TaskService) appendEvent(ctx context.Context, ownerID, taskID int, typ, description string, meta map[string]any) {
	_ = s.eventRepo.Append(ctx, models.TaskEvent{
		EventID:     uuid.NewString(),
		OwnerID:     ownerID,
		TaskID:      taskID,
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
}

func validateTaskFields(title, description, status, priority, category string, estimate *int) error {
	if title == "" || len(title) > maxTitleLen {
		return ErrInvalidTitle
	}
	if len(description) > maxDescriptionLen {
		return ErrInvalidDescription
	}
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	if !models.ValidPriority(priority) {
		return ErrInvalidPriority
	}
	if !models.ValidCategory(category) {
		return ErrInvalidCategory
	}
	if estimate != nil && (*estimate < models.MinEstimatedMinutes || *estimate > models.MaxEstimatedMinutes) {
		return ErrInvalidEstimate
	}
	return nil
}
