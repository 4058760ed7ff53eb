package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"taskplanner/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func taskColumnNames() []string {
	return []string{"id", "title", "description", "status", "priority", "category",
		"estimated_minutes", "deadline", "created_at", "updated_at", "owner_id"}
}

func newTaskMock(t *testing.T) (*TaskSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewTaskSQLite(db), mock, func() { db.Close() }
}

func TestTaskSQLite_Create(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	est := 45
	deadline := now.Add(48 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs("report", "quarterly numbers", "new", "medium", "work",
			sql.NullInt64{Int64: 45, Valid: true},
			sql.NullTime{Time: deadline, Valid: true},
			now, now, 7).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), models.Task{
		Title:            "report",
		Description:      "quarterly numbers",
		Status:           "new",
		Priority:         "medium",
		Category:         "work",
		EstimatedMinutes: &est,
		Deadline:         &deadline,
		CreatedAt:        now,
		UpdatedAt:        now,
		OwnerID:          7,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 11 {
		t.Fatalf("id: got %d, want 11", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskSQLite_CreateNullableFields(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs("bare", "", "new", "medium", "other",
			sql.NullInt64{}, sql.NullTime{}, now, now, 7).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := repo.Create(context.Background(), models.Task{
		Title:     "bare",
		Status:    "new",
		Priority:  "medium",
		Category:  "other",
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   7,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskSQLite_GetByID(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(taskColumnNames()).
		AddRow(11, "report", "quarterly numbers", "new", "medium", "work", 45, nil, now, now, 7)
	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(7, 11).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 7, 11)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != 11 || got.OwnerID != 7 {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.EstimatedMinutes == nil || *got.EstimatedMinutes != 45 {
		t.Fatalf("estimate: got %v, want 45", got.EstimatedMinutes)
	}
	if got.Deadline != nil {
		t.Fatalf("deadline should be nil, got %v", got.Deadline)
	}
}

func TestTaskSQLite_GetByIDNotFound(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(7, 999).
		WillReturnRows(sqlmock.NewRows(taskColumnNames()))

	got, err := repo.GetByID(context.Background(), 7, 999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for missing task, got %+v", got)
	}
}

func TestTaskSQLite_ListBuildsFilteredQuery(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	wantSQL := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? AND status = ? AND category = ?` +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows := sqlmock.NewRows(taskColumnNames()).
		AddRow(2, "b", "", "new", "medium", "work", nil, nil, now, now, 7).
		AddRow(1, "a", "", "new", "low", "work", nil, nil, now, now, 7)
	mock.ExpectQuery(regexp.QuoteMeta(wantSQL)).
		WithArgs(7, "new", "work", 10, 5).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 7, TaskFilter{
		Status:   "new",
		Category: "work",
		Limit:    10,
		Offset:   5,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Fatalf("unexpected tasks: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskSQLite_ListWithoutLimit(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	wantSQL := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, id DESC`
	mock.ExpectQuery(regexp.QuoteMeta(wantSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(taskColumnNames()))

	got, err := repo.List(context.Background(), 7, TaskFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty slice, got %+v", got)
	}
}

func TestTaskSQLite_Update(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(updateTaskSQL)).
		WithArgs("done task", "", "done", "medium", "work",
			sql.NullInt64{}, sql.NullTime{}, now, 7, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), models.Task{
		ID:        11,
		Title:     "done task",
		Status:    "done",
		Priority:  "medium",
		Category:  "work",
		UpdatedAt: now,
		OwnerID:   7,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskSQLite_Delete(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
		WithArgs(7, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7, 11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskSQLite_CountByStatus(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	rows := sqlmock.NewRows([]string{"status", "COUNT(*)"}).
		AddRow("new", 3).
		AddRow("done", 5)
	mock.ExpectQuery(regexp.QuoteMeta(countByStatusSQL)).
		WithArgs(7).
		WillReturnRows(rows)

	got, err := repo.CountByStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if got["new"] != 3 || got["done"] != 5 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestTaskSQLite_ListOverdue(t *testing.T) {
	repo, mock, closeDB := newTaskMock(t)
	defer closeDB()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(-time.Hour)

	rows := sqlmock.NewRows(taskColumnNames()).
		AddRow(4, "late", "", "in_progress", "high", "work", nil, deadline, now, now, 9)
	mock.ExpectQuery(regexp.QuoteMeta(selectOverdueSQL)).
		WithArgs(now, models.StatusDone).
		WillReturnRows(rows)

	got, err := repo.ListOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListOverdue: %v", err)
	}
	if len(got) != 1 || got[0].ID != 4 || got[0].OwnerID != 9 {
		t.Fatalf("unexpected tasks: %+v", got)
	}
	if got[0].Deadline == nil || !got[0].Deadline.Equal(deadline) {
		t.Fatalf("deadline: got %v, want %v", got[0].Deadline, deadline)
	}
}
