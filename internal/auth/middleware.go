package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/synergysphere/backend/internal/domain"
	"github.com/synergysphere/backend/internal/service/serviceutils"
)

// userIDKey is the echo context key holding the authenticated user id.
const userIDKey = "auth.userID"

// Middleware returns an echo middleware that requires a valid bearer token
// and stores the caller's user id in the request context. Rejections use
// the same response envelope as every other error path.
func Middleware(tokens *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request())
			if token == "" {
				return serviceutils.ResponseDomainError(c, domain.ErrUnauthorized)
			}
			userID, err := tokens.Verify(token)
			if err != nil {
				return serviceutils.ResponseDomainError(c, err)
			}
			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id set by Middleware, or "" when
// the request is unauthenticated.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// BearerToken extracts the credential from the Authorization header or the
// "token" query parameter (the WebSocket client cannot set headers). A
// non-Bearer Authorization scheme is ignored rather than passed through.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
	}
	return r.URL.Query().Get("token")
}
