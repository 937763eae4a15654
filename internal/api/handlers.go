package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskpulse/internal/storage"
)

const maxTitleLength = 512

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Importance  float64    `json:"importance"`
	Deadline    *time.Time `json:"deadline"`
	Completed   bool       `json:"completed"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Priority    float64    `json:"priority"`
	Urgency     string     `json:"urgency"`
}

func (s *Server) taskResponse(task storage.Task, now time.Time) taskResponse {
	out := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Importance:  task.Importance,
		Deadline:    task.Deadline,
		Completed:   task.Completed,
		Owner:       task.Owner,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
	value, err := s.params.Compute(task.Importance, task.Deadline, now)
	if err != nil {
		// Stored importance is validated on write; fall back to it raw.
		value = task.Importance
	}
	out.Priority = value
	out.Urgency = string(s.params.Classify(value, task.Deadline != nil))
	return out
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListTasks(c *gin.Context) {
	filter := storage.TaskListFilter{Owner: c.Query("owner")}
	if v := c.Query("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}

	tasks, err := s.repo.ListTasks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, s.taskResponse(task, now))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out, "count": len(out)})
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Importance  float64    `json:"importance" binding:"required,gt=0"`
	Deadline    *time.Time `json:"deadline"`
	Owner       string     `json:"owner" binding:"required"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Title) > maxTitleLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title too long"})
		return
	}
	if _, err := s.repo.GetUser(c.Request.Context(), req.Owner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown owner"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	task := storage.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Importance:  req.Importance,
		Deadline:    req.Deadline,
		Owner:       req.Owner,
		CreatedAt:   now,
	}
	if err := s.repo.CreateTask(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, s.taskResponse(task, now))
}

type updateTaskRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Importance    *float64   `json:"importance"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clear_deadline"`
	Completed     *bool      `json:"completed"`
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.repo.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Importance != nil {
		if *req.Importance <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "importance must be positive"})
			return
		}
		task.Importance = *req.Importance
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}
	if req.ClearDeadline {
		task.Deadline = nil
	}
	now := time.Now().UTC()
	if req.Completed != nil && *req.Completed != task.Completed {
		task.Completed = *req.Completed
		if task.Completed {
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.repo.UpdateTask(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.taskResponse(task, now))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	err := s.repo.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type createUserRequest struct {
	Username             string `json:"username" binding:"required"`
	WebhookURL           string `json:"webhook_url"`
	FCMToken             string `json:"fcm_token"`
	NotificationsEnabled *bool  `json:"notifications_enabled"`
	NotifyEveryMinutes   int    `json:"notify_every_minutes"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enabled := true
	if req.NotificationsEnabled != nil {
		enabled = *req.NotificationsEnabled
	}
	user := storage.User{
		Username:             req.Username,
		WebhookURL:           req.WebhookURL,
		FCMToken:             req.FCMToken,
		NotificationsEnabled: enabled,
		NotifyEveryMinutes:   req.NotifyEveryMinutes,
		CreatedAt:            time.Now().UTC(),
	}
	if err := s.repo.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": user.Username})
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.repo.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":              user.Username,
		"webhook_url":           user.WebhookURL,
		"fcm_token":             user.FCMToken,
		"notifications_enabled": user.NotificationsEnabled,
		"notify_every_minutes":  user.NotifyEveryMinutes,
		"last_notified_at":      user.LastNotifiedAt,
	})
}

type updateWebhookRequest struct {
	WebhookURL string `json:"webhook_url" binding:"required,url"`
}

func (s *Server) handleUpdateWebhook(c *gin.Context) {
	var req updateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.patchUser(c, func(user *storage.User) {
		user.WebhookURL = req.WebhookURL
	})
}

type updateFCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

func (s *Server) handleUpdateFCMToken(c *gin.Context) {
	var req updateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.patchUser(c, func(user *storage.User) {
		user.FCMToken = req.FCMToken
	})
}

func (s *Server) patchUser(c *gin.Context, apply func(*storage.User)) {
	user, err := s.repo.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	apply(&user)
	if err := s.repo.UpdateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) handleRunSweep(c *gin.Context) {
	if s.sweeper == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sweeper not configured"})
		return
	}
	report, err := s.sweeper.Run(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"evaluated":         report.Evaluated,
		"notified":          report.Notified,
		"skipped_no_target": report.SkippedNoTarget,
		"skipped_interval":  report.SkippedInterval,
		"send_failed":       report.SendFailed,
	})
}
