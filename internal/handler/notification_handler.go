package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/auth"
	"github.com/synergysphere/backend/internal/service"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) ListHandler(c echo.Context) error {
	list, err := h.notifications.List(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", list)
}

func (h *NotificationHandler) UnreadHandler(c echo.Context) error {
	unread, err := h.notifications.Unread(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "", unread)
}

func (h *NotificationHandler) MarkReadHandler(c echo.Context) error {
	n, err := h.notifications.MarkRead(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "notification marked as read", n)
}
