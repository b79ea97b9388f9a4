package repository

import (
	"context"
	"fmt"
	"strings"

	"task_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, user_id, title, description, priority, status, deadline, tags, created_at, updated_at`

// TaskRepository defines operations for task data. Every operation except
// FindAll and the unscoped GetStats is restricted to a single owner.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByOwner(ctx context.Context, userID int) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) (int64, error)
	Delete(ctx context.Context, taskID int64, userID int) (int64, error)
	Search(ctx context.Context, userID int, filters model.TaskSearchFilters) ([]model.Task, error)
	FindAll(ctx context.Context) ([]model.Task, error)
	GetStats(ctx context.Context, userID *int) (*model.TaskStats, error)
}

type taskRepository struct {
	db DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a new task owned by task.UserID
func (r *taskRepository) Create(ctx context.Context, t *model.Task) error {
	sql := `INSERT INTO tasks (user_id, title, description, priority, status, deadline, tags)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, t.UserID, t.Title, t.Description, t.Priority, t.Status, t.Deadline, t.Tags).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByOwner retrieves all tasks belonging to a user, in id order
func (r *taskRepository) FindByOwner(ctx context.Context, userID int) ([]model.Task, error) {
	sql := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks by owner: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// Update replaces all six mutable fields of a task. The WHERE clause scopes
// the write to the owner, so a mismatched owner updates zero rows. The
// affected count is returned so callers can tell.
func (r *taskRepository) Update(ctx context.Context, t *model.Task) (int64, error) {
	sql := `UPDATE tasks
            SET title = $1, description = $2, priority = $3, status = $4, deadline = $5, tags = $6, updated_at = NOW()
            WHERE id = $7 AND user_id = $8`
	cmdTag, err := r.db.Exec(ctx, sql, t.Title, t.Description, t.Priority, t.Status, t.Deadline, t.Tags, t.ID, t.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to update task: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// Delete removes a task, scoped to its owner. Delete is permanent.
func (r *taskRepository) Delete(ctx context.Context, taskID int64, userID int) (int64, error) {
	sql := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, taskID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// Search retrieves a user's tasks matching the given filters. Filters are
// conjunctive; with none present this is equivalent to FindByOwner.
func (r *taskRepository) Search(ctx context.Context, userID int, filters model.TaskSearchFilters) ([]model.Task, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)
	args := []interface{}{userID}
	argCount := 2 // Start after user_id

	if filters.Q != nil && *filters.Q != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argCount, argCount+1))
		pattern := "%" + *filters.Q + "%"
		args = append(args, pattern, pattern)
		argCount += 2
	}
	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Priority != nil && *filters.Priority != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND priority = $%d", argCount))
		args = append(args, *filters.Priority)
		//argCount++
	}

	queryBuilder.WriteString(" ORDER BY id")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindAll retrieves every task across all users, for admins
func (r *taskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	sql := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query all tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// GetStats calculates the dashboard aggregates, scoped to one user when
// userID is non-nil and global otherwise. A task is overdue when it is not
// Completed and its deadline is strictly before the database's current date.
func (r *taskRepository) GetStats(ctx context.Context, userID *int) (*model.TaskStats, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            COUNT(*) AS total_tasks,
            COUNT(*) FILTER (WHERE status = 'Completed') AS completed_tasks,
            COUNT(*) FILTER (WHERE status <> 'Completed' AND deadline < CURRENT_DATE) AS overdue_tasks
        FROM tasks`)

	args := []interface{}{}
	if userID != nil {
		queryBuilder.WriteString(" WHERE user_id = $1")
		args = append(args, *userID)
	}

	stats := &model.TaskStats{}
	err := r.db.QueryRow(ctx, queryBuilder.String(), args...).
		Scan(&stats.TotalTasks, &stats.CompletedTasks, &stats.OverdueTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}

	// completion_rate is exactly 0 for an empty task set, never NaN
	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}

	return stats, nil
}

func scanTasks(rows pgx.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Status,
			&t.Deadline, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}
