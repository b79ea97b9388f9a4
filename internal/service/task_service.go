package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"task_tracker/internal/model"
	"task_tracker/internal/repository"
)

// ErrTaskNotFound is returned when an update or delete touches zero rows,
// which covers both a missing task and a task owned by someone else.
var ErrTaskNotFound = errors.New("task not found")

const deadlineLayout = "2006-01-02"

// TaskService defines operations on tasks
type TaskService interface {
	CreateTask(ctx context.Context, userID int, req model.TaskRequest) (*model.Task, error)
	GetUserTasks(ctx context.Context, userID int) ([]model.Task, error)
	UpdateTask(ctx context.Context, taskID int64, userID int, req model.TaskRequest) error
	DeleteTask(ctx context.Context, taskID int64, userID int) error
	SearchTasks(ctx context.Context, userID int, filters model.TaskSearchFilters) ([]model.Task, error)
	GetDashboard(ctx context.Context, userID int) (*model.TaskStats, error)

	// Admin methods
	GetAllTasksAdmin(ctx context.Context) ([]model.Task, error)
	GetDashboardAdmin(ctx context.Context) (*model.TaskStats, error)
	ExportTasksCSVAdmin(ctx context.Context) (*bytes.Buffer, error)
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// taskFromRequest builds a Task owned by userID from a request body.
// Absent tags become the empty string.
func taskFromRequest(userID int, req model.TaskRequest) (*model.Task, error) {
	deadline, err := time.Parse(deadlineLayout, req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline %q: %w", req.Deadline, err)
	}

	tags := ""
	if req.Tags != nil {
		tags = *req.Tags
	}

	return &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Deadline:    deadline,
		Tags:        tags,
	}, nil
}

func (s *taskService) CreateTask(ctx context.Context, userID int, req model.TaskRequest) (*model.Task, error) {
	task, err := taskFromRequest(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task in repo: %w", err)
	}
	return task, nil
}

func (s *taskService) GetUserTasks(ctx context.Context, userID int) ([]model.Task, error) {
	tasks, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tasks from repo: %w", err)
	}
	return tasks, nil
}

// UpdateTask replaces all mutable fields of a task. Ownership is enforced by
// the repository's WHERE clause; zero affected rows surface as ErrTaskNotFound.
func (s *taskService) UpdateTask(ctx context.Context, taskID int64, userID int, req model.TaskRequest) error {
	task, err := taskFromRequest(userID, req)
	if err != nil {
		return err
	}
	task.ID = taskID

	affected, err := s.repo.Update(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to update task in repo: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *taskService) DeleteTask(ctx context.Context, taskID int64, userID int) error {
	affected, err := s.repo.Delete(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task in repo: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *taskService) SearchTasks(ctx context.Context, userID int, filters model.TaskSearchFilters) ([]model.Task, error) {
	tasks, err := s.repo.Search(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks in repo: %w", err)
	}
	return tasks, nil
}

func (s *taskService) GetDashboard(ctx context.Context, userID int) (*model.TaskStats, error) {
	stats, err := s.repo.GetStats(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return stats, nil
}

// --- Admin Methods ---

func (s *taskService) GetAllTasksAdmin(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all tasks for admin: %w", err)
	}
	return tasks, nil
}

func (s *taskService) GetDashboardAdmin(ctx context.Context) (*model.TaskStats, error) {
	stats, err := s.repo.GetStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin dashboard stats: %w", err)
	}
	return stats, nil
}

func (s *taskService) ExportTasksCSVAdmin(ctx context.Context) (*bytes.Buffer, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks for CSV export: %w", err)
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "UserID", "Title", "Description", "Priority", "Status", "Deadline", "Tags", "CreatedAt"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.Itoa(t.UserID),
			t.Title,
			t.Description,
			t.Priority,
			t.Status,
			t.Deadline.Format(deadlineLayout),
			t.Tags,
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return buffer, nil
}
