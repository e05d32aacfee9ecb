package httpapi

import (
	"net/http"
	"strings"

	"github.com/agrosuite/agrosync/internal/server/auth"
	"github.com/labstack/echo/v4"
)

// userIDKey is the echo context key carrying the authenticated user id.
const userIDKey = "user_id"

// bearerAuth verifies the Authorization header and stashes the user id in
// the request context. Missing, malformed or expired tokens get 401; farm
// access checks happen later and yield 403, so clients can tell a dead
// session apart from a membership problem.
func (s *Server) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
		}

		userID, err := auth.GetUserIDFromToken(token, []byte(s.config.SecretKey))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

func currentUserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
