package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskplanner/internal/models"
)

type TaskSQLite struct {
	db *sql.DB
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{db: db}
}

var _ TaskRepo = (*TaskSQLite)(nil)

const (
	insertTaskSQL = `
		INSERT INTO tasks (title, description, status, priority, category, estimated_minutes, deadline, created_at, updated_at, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	taskColumns = `id, title, description, status, priority, category, estimated_minutes, deadline, created_at, updated_at, owner_id`

	selectTaskByIDSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? AND id = ?`

	updateTaskSQL = `
		UPDATE tasks SET title=?, description=?, status=?, priority=?, category=?, estimated_minutes=?, deadline=?, updated_at=?
		WHERE owner_id = ? AND id = ?
	`

	deleteTaskSQL = `DELETE FROM tasks WHERE owner_id = ? AND id = ?`

	countByStatusSQL = `SELECT status, COUNT(*) FROM tasks WHERE owner_id = ? GROUP BY status`

	selectOverdueSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE deadline IS NOT NULL AND deadline <= ? AND status != ?`
)

// Create inserts a task and returns its ID.
func (r *TaskSQLite) Create(ctx context.Context, t models.Task) (int, error) {
	res, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.Category,
		nullInt(t.EstimatedMinutes),
		nullTime(t.Deadline),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
		t.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert task %q: %w", t.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for task %q: %w", t.Title, err)
	}
	return int(lastID), nil
}

// GetByID fetches one task owned by ownerID. Returns (nil, nil) if not found.
func (r *TaskSQLite) GetByID(ctx context.Context, ownerID, id int) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, selectTaskByIDSQL, ownerID, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	return t, nil
}

// List returns the owner's tasks, newest first, honoring the filter.
func (r *TaskSQLite) List(ctx context.Context, ownerID int, f TaskFilter) ([]models.Task, error) {
	conds := []string{"owner_id = ?"}
	args := []any{ownerID}

	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// Update rewrites all mutable columns of an owner's task.
func (r *TaskSQLite) Update(ctx context.Context, t models.Task) error {
	_, err := r.db.ExecContext(ctx, updateTaskSQL,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.Category,
		nullInt(t.EstimatedMinutes),
		nullTime(t.Deadline),
		t.UpdatedAt.UTC(),
		t.OwnerID,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return nil
}

// Delete removes an owner's task.
func (r *TaskSQLite) Delete(ctx context.Context, ownerID, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteTaskSQL, ownerID, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// CountByStatus returns the owner's task counts keyed by status.
func (r *TaskSQLite) CountByStatus(ctx context.Context, ownerID int) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, countByStatusSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count tasks for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ListOverdue returns unfinished tasks of any owner whose deadline has passed.
func (r *TaskSQLite) ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectOverdueSQL, now.UTC(), models.StatusDone)
	if err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*models.Task, error) {
	var (
		t        models.Task
		est      sql.NullInt64
		deadline sql.NullTime
	)
	if err := s.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Category,
		&est, &deadline, &t.CreatedAt, &t.UpdatedAt, &t.OwnerID,
	); err != nil {
		return nil, err
	}
	if est.Valid {
		v := int(est.Int64)
		t.EstimatedMinutes = &v
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		t.Deadline = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: p.UTC(), Valid: true}
}
