package httpapi

import (
	"errors"
	"net/http"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/labstack/echo/v4"
)

// writeError maps sentinel errors to HTTP statuses. Anything unmapped is a
// 500 with a generic body; the real cause goes to the log only.
func (s *Server) writeError(c echo.Context, err error) error {
	var status int

	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorInviteInvalid),
		errors.Is(err, common.ErrorInviteExpired):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorInvalidLoginPassword),
		errors.Is(err, common.ErrorInvalidToken),
		errors.Is(err, common.ErrorTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFarmMember):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
	default:
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err.Error())
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(status, map[string]string{"error": err.Error()})
}
