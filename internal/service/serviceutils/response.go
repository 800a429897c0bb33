package serviceutils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/domain"
)

type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, code int, msg string, data interface{}) error {
	return c.JSON(code, GenericResponse{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := GenericResponse{
		Success: false,
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}

// ResponseDomainError maps domain sentinel errors onto HTTP statuses.
// Anything unrecognized is a persistence-layer failure and surfaces as a
// generic 500; the detail stays in the server log.
func ResponseDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return ResponseError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		return ResponseError(c, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, domain.ErrForbidden):
		return ResponseError(c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, domain.ErrNotFound):
		return ResponseError(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, domain.ErrDuplicate):
		return ResponseError(c, http.StatusConflict, err.Error(), nil)
	default:
		return ResponseError(c, http.StatusInternalServerError, "internal error", nil)
	}
}
