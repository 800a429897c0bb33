package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/export"
	"github.com/synergysphere/backend/internal/service"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

type ProjectHandler struct {
	svc   service.ProjectService
	tasks service.TaskService
}

func NewProjectHandler(svc service.ProjectService, tasks service.TaskService) *ProjectHandler {
	return &ProjectHandler{svc: svc, tasks: tasks}
}

func (h *ProjectHandler) ListHandler(c echo.Context) error {
	projects, err := h.svc.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", projects)
}

func (h *ProjectHandler) GetHandler(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", p)
}

func (h *ProjectHandler) CreateHandler(c echo.Context) error {
	var in service.CreateProjectInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	p, err := h.svc.Create(c.Request().Context(), auth.UserID(c), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Project created", p)
}

func (h *ProjectHandler) UpdateHandler(c echo.Context) error {
	var in service.UpdateProjectInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	p, err := h.svc.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Project updated", p)
}

func (h *ProjectHandler) DeleteHandler(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Project deleted", nil)
}

func (h *ProjectHandler) MembersHandler(c echo.Context) error {
	members, err := h.svc.Members(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", members)
}

func (h *ProjectHandler) AddMemberHandler(c echo.Context) error {
	var in service.AddMemberInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	m, err := h.svc.AddMember(c.Request().Context(), auth.UserID(c), c.Param("id"), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Member added", m)
}

func (h *ProjectHandler) RemoveMemberHandler(c echo.Context) error {
	err := h.svc.RemoveMember(c.Request().Context(), auth.UserID(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Member removed", nil)
}

// ExportHandler streams the project's task list as an xlsx attachment.
func (h *ProjectHandler) ExportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	userID := auth.UserID(c)
	projectID := c.Param("id")

	p, err := h.svc.Get(ctx, userID, projectID)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	tasks, err := h.tasks.ListByProject(ctx, userID, projectID)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}

	excelBytes, err := export.TaskReport(p, tasks)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate Excel file", err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s_tasks.xlsx"`, projectID))
	_, err = c.Response().Write(excelBytes)
	return err
}
