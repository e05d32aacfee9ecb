package httpapi

import (
	"net/http"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/timex"
	"github.com/labstack/echo/v4"
)

type createFarmRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
}

type joinFarmRequest struct {
	Code string `json:"code"`
}

type inviteDTO struct {
	Code      string          `json:"code"`
	FarmID    string          `json:"farm_id"`
	ExpiresAt timex.Timestamp `json:"expires_at"`
}

func (s *Server) createFarm(c echo.Context) error {
	var req createFarmRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	farm, err := s.farmService.Create(c.Request().Context(), currentUserID(c), req.Name, req.Currency, req.Timezone)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toFarmDTO(farm, ""))
}

func (s *Server) inviteStaff(c echo.Context) error {
	invite, err := s.farmService.Invite(c.Request().Context(), currentUserID(c), c.Param("farm_id"))
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, inviteDTO{Code: invite.Code, FarmID: invite.FarmID, ExpiresAt: invite.ExpiresAt})
}

func (s *Server) joinFarm(c echo.Context) error {
	var req joinFarmRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	farm, err := s.farmService.Join(c.Request().Context(), currentUserID(c), req.Code)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toFarmDTO(farm, ""))
}
