package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// MigrateHandler imports data a client kept in local storage
type MigrateHandler struct {
	migrationRepository repositories.MigrationRepository
}

func NewMigrateHandler(migrationRepo repositories.MigrationRepository) *MigrateHandler {
	return &MigrateHandler{migrationRepository: migrationRepo}
}

// RegisterMigrateRoutes registers migration routes
func (h *MigrateHandler) RegisterMigrateRoutes(g *echo.Group) {
	g.POST("/import-localstorage", h.ImportLocalStorage)
}

// ImportLocalStorage imports preferences, then each saved paper on its own.
// A failing paper is reported in the summary and does not stop the others.
func (h *MigrateHandler) ImportLocalStorage(c echo.Context) error {
	var req models.MigrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	user := currentUser(c)
	if err := h.migrationRepository.ImportPreferences(user, req.Preferences); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Migration failed: "+err.Error())
	}

	result := models.MigrationResult{
		Message: "Migration completed",
		Errors:  []string{},
	}
	for _, raw := range req.SavedPapers {
		var paper models.LocalSavedPaper
		err := json.Unmarshal(raw, &paper)
		if err == nil {
			err = c.Validate(&paper)
		}
		if err == nil {
			err = h.migrationRepository.ImportSavedPaper(user.ID, paper)
		}

		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, repositories.ErrAlreadySaved):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("Error importing paper %s: %s", localPaperID(raw), errorText(err)))
		}
	}

	return c.JSON(http.StatusOK, result)
}

// localPaperID extracts the id of a raw entry for error reporting
func localPaperID(raw json.RawMessage) string {
	var entry struct {
		ID interface{} `json:"id"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil || entry.ID == nil {
		return "unknown"
	}
	return fmt.Sprint(entry.ID)
}

func errorText(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
