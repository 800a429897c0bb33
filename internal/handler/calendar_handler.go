package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/service"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

// CalendarHandler serves the deadline feeds the calendar view overlays on
// top of explicit events.
type CalendarHandler struct {
	tasks    service.TaskService
	projects service.ProjectService
}

func NewCalendarHandler(tasks service.TaskService, projects service.ProjectService) *CalendarHandler {
	return &CalendarHandler{tasks: tasks, projects: projects}
}

func (h *CalendarHandler) TaskDeadlinesHandler(c echo.Context) error {
	tasks, err := h.tasks.Deadlines(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", tasks)
}

func (h *CalendarHandler) ProjectDeadlinesHandler(c echo.Context) error {
	projects, err := h.projects.Deadlines(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", projects)
}
