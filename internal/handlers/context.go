package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/middleware"
	"github.com/paperswipe/backend/internal/models"
)

// currentUser returns the user resolved by the auth middleware, or nil
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(middleware.UserContextKey).(*models.User)
	return user
}

// pathID parses a positive integer path parameter
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// bindAndValidate binds the request into req and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request parameters")
	}
	return c.Validate(req)
}

func message(text string) echo.Map {
	return echo.Map{"message": text}
}
