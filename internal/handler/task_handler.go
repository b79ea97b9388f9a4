package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"task_tracker/internal/middleware"
	"task_tracker/internal/model"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task related requests
type TaskHandler struct {
	service service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req model.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.service.CreateTask(c.Request.Context(), userID, req); err != nil {
		log.Printf("Error creating task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task created"})
}

func (h *TaskHandler) GetMyTasks(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	tasks, err := h.service.GetUserTasks(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error getting user tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req model.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateTask(c.Request.Context(), taskID, userID, req); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		log.Printf("Error updating task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		log.Printf("Error deleting task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *TaskHandler) SearchTasks(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var filters model.TaskSearchFilters
	if q := c.Query("q"); q != "" {
		filters.Q = &q
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if priority := c.Query("priority"); priority != "" {
		filters.Priority = &priority
	}

	tasks, err := h.service.SearchTasks(c.Request.Context(), userID, filters)
	if err != nil {
		log.Printf("Error searching tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetDashboard(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	stats, err := h.service.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error getting dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- Admin Routes ---

func (h *TaskHandler) GetAllTasksAdmin(c *gin.Context) {
	tasks, err := h.service.GetAllTasksAdmin(c.Request.Context())
	if err != nil {
		log.Printf("Error getting all tasks for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetDashboardAdmin(c *gin.Context) {
	stats, err := h.service.GetDashboardAdmin(c.Request.Context())
	if err != nil {
		log.Printf("Error getting admin dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *TaskHandler) ExportTasksCSVAdmin(c *gin.Context) {
	csvBuffer, err := h.service.ExportTasksCSVAdmin(c.Request.Context())
	if err != nil {
		log.Printf("Error exporting tasks to CSV for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export tasks to CSV"})
		return
	}

	fileName := fmt.Sprintf("tasks_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv", csvBuffer.Bytes())
}

// RegisterTaskRoutes registers task, dashboard and admin routes
func (h *TaskHandler) RegisterTaskRoutes(r *gin.Engine, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	taskRoutes := r.Group("/tasks")
	taskRoutes.Use(authMW)
	{
		taskRoutes.POST("", h.CreateTask)
		taskRoutes.GET("", h.GetMyTasks)
		taskRoutes.GET("/search", h.SearchTasks)
		taskRoutes.PUT("/:id", h.UpdateTask)
		taskRoutes.DELETE("/:id", h.DeleteTask)
	}

	r.GET("/dashboard", authMW, h.GetDashboard)

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("/tasks", h.GetAllTasksAdmin)
		adminRoutes.GET("/dashboard", h.GetDashboardAdmin)
		adminRoutes.GET("/tasks/export/csv", h.ExportTasksCSVAdmin)
	}
}
