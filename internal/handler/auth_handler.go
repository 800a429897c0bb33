package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/service"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) SignupHandler(c echo.Context) error {
	var in service.SignupInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	session, err := h.svc.Signup(c.Request().Context(), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Account created", session)
}

func (h *AuthHandler) LoginHandler(c echo.Context) error {
	var in service.LoginInput
	if err := c.Bind(&in); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	session, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return serviceutils.ResponseDomainError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Logged in", session)
}
