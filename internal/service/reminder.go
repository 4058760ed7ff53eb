package service

import (
	"context"
	"fmt"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
)

// ReminderService watches deadlines and records overdue events.
type ReminderService struct {
	taskRepo  repository.TaskRepo
	eventRepo repository.EventRepo

	// reported tracks task IDs already flagged this process lifetime, so
	// the loop emits one DEADLINE_OVERDUE per task. A restart may report
	// again; task rows are never mutated.
	reported map[int]bool
}

func NewReminderService(taskRepo repository.TaskRepo, eventRepo repository.EventRepo) *ReminderService {
	return &ReminderService{
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
		reported:  make(map[int]bool),
	}
}

var _ Reminder = (*ReminderService)(nil)

// Run ticks at the given interval until ctx is canceled.
func (s *ReminderService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.scan(ctx, now.UTC())
		}
	}
}

// scan reports every unfinished task whose deadline has passed.
func (s *ReminderService) scan(ctx context.Context, now time.Time) {
	overdue, err := s.taskRepo.ListOverdue(ctx, now)
	if err != nil {
		return
	}
	for _, t := range overdue {
		if s.reported[t.ID] || t.Deadline == nil {
			continue
		}
		err := s.eventRepo.Append(ctx, models.TaskEvent{
			EventID:     uuid.NewString(),
			OwnerID:     t.OwnerID,
			TaskID:      t.ID,
			OccurredAt:  now,
			Type:        "DEADLINE_OVERDUE",
			Description: fmt.Sprintf("Task %q missed its deadline", t.Title),
			Metadata: map[string]any{
				"deadline": t.Deadline.UTC(),
				"status":   t.Status,
			},
		})
		if err == nil {
			s.reported[t.ID] = true
		}
	}
}
