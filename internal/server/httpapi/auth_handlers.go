package httpapi

import (
	"net/http"

	"github.com/agrosuite/agrosync/internal/common"
	"github.com/agrosuite/agrosync/internal/server/models"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type farmDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Role     string `json:"role,omitempty"`
}

func toFarmDTO(f *models.Farm, role string) farmDTO {
	return farmDTO{ID: f.ID, Name: f.Name, Currency: f.Currency, Timezone: f.Timezone, Role: role}
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	user, err := s.userService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, userDTO{ID: user.ID, Email: user.Email, Name: user.Name})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, common.ErrorValidation)
	}

	token, err := s.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) me(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	user, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		return s.writeError(c, err)
	}

	farms, memberships, err := s.farmService.ListUserFarms(ctx, userID)
	if err != nil {
		return s.writeError(c, err)
	}

	farmDTOs := make([]farmDTO, 0, len(farms))
	for i := range farms {
		farmDTOs = append(farmDTOs, toFarmDTO(&farms[i], memberships[i].Role))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":  userDTO{ID: user.ID, Email: user.Email, Name: user.Name},
		"farms": farmDTOs,
	})
}
