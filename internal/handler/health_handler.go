package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/logger"
	"github.com/synergysphere/backend/internal/realtime"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

type HealthHandler struct {
	registry      *realtime.Registry
	projects      domain.ProjectRepository
	tasks         domain.TaskRepository
	notifications domain.NotificationRepository
}

func NewHealthHandler(registry *realtime.Registry, projects domain.ProjectRepository, tasks domain.TaskRepository, notifications domain.NotificationRepository) *HealthHandler {
	return &HealthHandler{registry: registry, projects: projects, tasks: tasks, notifications: notifications}
}

type healthReport struct {
	Status        string `json:"status"`
	Connections   int    `json:"connections"`
	Users         int    `json:"connectedUsers"`
	Projects      int    `json:"projects"`
	Tasks         int    `json:"tasks"`
	Notifications int    `json:"notifications"`
}

func (h *HealthHandler) StatusHandler(c echo.Context) error {
	ctx := c.Request().Context()
	report := healthReport{
		Status:      "ok",
		Connections: h.registry.NumConnections(),
		Users:       h.registry.NumUsers(),
	}

	var err error
	if report.Projects, err = h.projects.Count(ctx); err != nil {
		logger.ErrorLog(ctx, "health: counting projects: %v", err)
		report.Status = "degraded"
	}
	if report.Tasks, err = h.tasks.Count(ctx); err != nil {
		logger.ErrorLog(ctx, "health: counting tasks: %v", err)
		report.Status = "degraded"
	}
	if report.Notifications, err = h.notifications.Count(ctx); err != nil {
		logger.ErrorLog(ctx, "health: counting notifications: %v", err)
		report.Status = "degraded"
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "", report)
}
