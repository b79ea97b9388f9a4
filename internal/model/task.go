package model

import "time"

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task represents a unit of work owned by a single user
type Task struct {
	ID          int64     `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Deadline    time.Time `json:"deadline"` // date only, no time component
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskRequest is the body for creating a task and for updating one.
// Updates are a full replace of all six mutable fields, so the same
// shape serves both.
type TaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Priority    string  `json:"priority" binding:"required,oneof=Low Medium High"`
	Status      string  `json:"status" binding:"required,oneof=Pending 'In Progress' Completed"`
	Deadline    string  `json:"deadline" binding:"required,datetime=2006-01-02"`
	Tags        *string `json:"tags"` // optional, defaults to empty string
}

// TaskSearchFilters contains the optional, conjunctive search filters
type TaskSearchFilters struct {
	Q        *string // case-insensitive substring over title OR description
	Status   *string
	Priority *string
}

// TaskStats holds the dashboard aggregates for one user or for all users
type TaskStats struct {
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	OverdueTasks   int64   `json:"overdue_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}
