package httpapi

import (
	"net/http"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/syncx"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/labstack/echo/v4"
)

func (s *Server) push(c echo.Context) error {
	var req syncx.PushRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	resp, err := s.syncService.Push(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) pull(c echo.Context) error {
	farmID := c.QueryParam("farm_id")

	// An absent since means "everything": the zero watermark predates any
	// stored row.
	since := timex.Timestamp{}
	if v := c.QueryParam("since"); v != "" {
		parsed, err := timex.Parse(v)
		if err != nil {
			return s.writeError(c, common.ErrorValidation)
		}
		since = parsed
	}

	resp, err := s.syncService.Pull(c.Request().Context(), currentUserID(c), farmID, since)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
