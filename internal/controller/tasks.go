package controller

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"taskdeck/internal/cache"
	"taskdeck/internal/database"
	"taskdeck/internal/middleware"
	"taskdeck/internal/models"
	"taskdeck/internal/queue"
	"taskdeck/internal/repository"
	"taskdeck/pkg/logger"
)

var listTasksGroup singleflight.Group

// ListTasks returns the user's tasks as JSON, cache-first as raw bytes.
// Concurrent misses for the same user collapse into one database read.
func ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.UserName(c)

	if b, ok := cache.GetRawTasks(ctx, user); ok {
		c.Data(http.StatusOK, "application/json", b)
		return
	}

	v, err, _ := listTasksGroup.Do("tasks:"+user, func() (interface{}, error) {
		tasks, err := repository.ListByUser(context.Background(), user)
		if err != nil {
			return nil, err
		}
		return json.Marshal(tasks)
	})
	if err != nil {
		if ctx.Err() != nil || isContextErr(err) {
			return
		}
		logger.Error(ctx, "ListTasks repository failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	b := v.([]byte)
	c.Data(http.StatusOK, "application/json", b)
	cache.SetRawTasksAsync(user, b)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// CreateTask validates the payload, stores the task and returns the full
// record with its assigned id.
func CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.UserName(c)

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Names identify lazily: a task create from an unseen name registers it.
	if _, err := repository.EnsureUser(ctx, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	task, err := repository.Create(ctx, user, req)
	if err != nil {
		logger.Error(ctx, "CreateTask repository failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	publishEvent(ctx, "created", task.ID, user)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a full update and returns the updated record.
func UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.UserName(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := repository.Update(ctx, user, id, req)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		logger.Error(ctx, "UpdateTask repository failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	publishEvent(ctx, "updated", id, user)
	c.JSON(http.StatusOK, task)
}

// ToggleTask flips the completed flag and returns the updated record.
func ToggleTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.UserName(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := repository.Toggle(ctx, user, id)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		logger.Error(ctx, "ToggleTask repository failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle task"})
		return
	}
	publishEvent(ctx, "toggled", id, user)
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes the task and returns 204.
func DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.UserName(c)
	id, ok := taskID(c)
	if !ok {
		return
	}

	err := repository.Delete(ctx, user, id)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		logger.Error(ctx, "DeleteTask repository failed", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	publishEvent(ctx, "deleted", id, user)
	c.Status(http.StatusNoContent)
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return 0, false
	}
	return id, true
}

// publishEvent emits a task event; the worker consumes it to invalidate
// the user's cache. Best effort: a dead broker never fails the mutation,
// the cache entry just ages out by TTL instead.
func publishEvent(ctx context.Context, action string, taskID int64, user string) {
	event := &models.TaskEvent{
		EventID:    uuid.New().String(),
		Action:     action,
		TaskID:     taskID,
		UserName:   user,
		OccurredAt: time.Now(),
	}
	if err := queue.PublishTaskEvent(ctx, event); err != nil {
		logger.Warn(ctx, "Task event publish failed", "error", err, "action", action, "task_id", taskID)
	}
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if DB and Redis are reachable. Used by K8s readiness
// probes.
func Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if cache.Client(ctx) == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
		return
	}
	db := database.DB(ctx)
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	if err := db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database ping failed"})
		return
	}
	c.String(http.StatusOK, "OK")
}
