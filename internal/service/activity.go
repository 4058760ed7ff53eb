package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
)

type ActivityService struct {
	eventRepo repository.EventRepo
}

func NewActivityService(eventRepo repository.EventRepo) *ActivityService {
	return &ActivityService{eventRepo: eventRepo}
}

var _ Activity = (*ActivityService)(nil)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f ActivityFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

func (s *ActivityService) List(ctx context.Context, ownerID int, f ActivityFilter) ([]models.TaskEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, ownerID, from, to, typ)
}

// Record appends one event, filling in ID and timestamp when absent.
func (s *ActivityService) Record(ctx context.Context, e models.TaskEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	return s.eventRepo.Append(ctx, e)
}
