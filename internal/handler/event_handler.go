package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/service"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) ListHandler(c echo.Context) error {
	events, err := h.svc.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", events)
}

func (h *EventHandler) RangeHandler(c echo.Context) error {
	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "start must be RFC3339", err)
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "end must be RFC3339", err)
	}

	events, err := h.svc.ListRange(c.Request().Context(), auth.UserID(c), start, end)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", events)
}

func (h *EventHandler) GetHandler(c echo.Context) error {
	e, err := h.svc.Get(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", e)
}

func (h *EventHandler) CreateHandler(c echo.Context) error {
	var in service.CreateEventInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	e, err := h.svc.Create(c.Request().Context(), auth.UserID(c), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Event created", e)
}

func (h *EventHandler) UpdateHandler(c echo.Context) error {
	var in service.UpdateEventInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	e, err := h.svc.Update(c.Request().Context(), auth.UserID(c), c.Param("id"), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Event updated", e)
}

func (h *EventHandler) DeleteHandler(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Event deleted", nil)
}
