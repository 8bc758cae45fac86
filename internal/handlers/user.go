package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// UserHandler handles HTTP requests on the caller's own account
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers the /me routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetProfile)
	g.PATCH("/me", h.UpdateProfile)
	g.DELETE("/me", h.DeleteUser)
}

// GetProfile returns the authenticated user's account
func (h *UserHandler) GetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c).ToResponse())
}

// UpdateProfile applies the fields present in the request
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user := currentUser(c)
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ResearchInterests != nil {
		user.ResearchInterests = datatypes.JSONSlice[string](*req.ResearchInterests)
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToResponse())
}

// DeleteUser deletes the authenticated user and everything they own
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.userRepository.DeleteUser(currentUser(c).ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
