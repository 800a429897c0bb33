package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/service"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) ListHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)

	var (
		tasks []domain.Task
		err   error
	)
	if projectID := c.QueryParam("projectId"); projectID != "" {
		tasks, err = h.svc.ListByProject(ctx, userID, projectID)
	} else {
		tasks, err = h.svc.List(ctx, userID)
	}
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", tasks)
}

func (h *TaskHandler) MineHandler(c echo.Context) error {
	tasks, err := h.svc.Mine(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", tasks)
}

func (h *TaskHandler) GetHandler(c echo.Context) error {
	t, err := h.svc.Get(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", t)
}

func (h *TaskHandler) CreateHandler(c echo.Context) error {
	var in service.CreateTaskInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	t, err := h.svc.Create(c.Request().Context(), auth.UserID(c), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Task created", t)
}

func (h *TaskHandler) UpdateHandler(c echo.Context) error {
	var in domain.TaskUpdate
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	t, err := h.svc.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Task updated", t)
}

func (h *TaskHandler) DeleteHandler(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Task deleted", nil)
}
