package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"github.com/paperswipe/backend/internal/export"
	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// SavedPaperHandler handles a user's saved paper collection
type SavedPaperHandler struct {
	savedPaperRepository repositories.SavedPaperRepository
}

func NewSavedPaperHandler(savedPaperRepo repositories.SavedPaperRepository) *SavedPaperHandler {
	return &SavedPaperHandler{savedPaperRepository: savedPaperRepo}
}

// RegisterSavedPaperRoutes registers saved paper routes
func (h *SavedPaperHandler) RegisterSavedPaperRoutes(g *echo.Group) {
	g.GET("", h.ListSavedPapers)
	g.POST("", h.SavePaper)
	g.GET("/export", h.ExportPapers)
	g.PATCH("/:id", h.UpdateSavedPaper)
	g.DELETE("/:id", h.DeleteSavedPaper)
}

func (h *SavedPaperHandler) ListSavedPapers(c echo.Context) error {
	papers, err := h.savedPaperRepository.GetSavedPapersByUser(currentUser(c).ID, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	response := make([]models.SavedPaperResponse, 0, len(papers))
	for i := range papers {
		response = append(response, papers[i].ToResponse())
	}
	return c.JSON(http.StatusOK, response)
}

func (h *SavedPaperHandler) SavePaper(c echo.Context) error {
	var req models.CreateSavedPaperRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := currentUser(c).ID
	saved, err := h.savedPaperRepository.IsPaperSaved(userID, req.ArxivID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if saved {
		return echo.NewHTTPError(http.StatusBadRequest, "Paper already saved")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	paper := &models.SavedPaper{
		UserID:        userID,
		ArxivID:       req.ArxivID,
		Title:         req.Title,
		Authors:       datatypes.JSONSlice[string](req.Authors),
		Abstract:      req.Abstract,
		Categories:    datatypes.JSONSlice[string](req.Categories),
		PublishedDate: req.PublishedDate,
		PDFURL:        req.PDFURL,
		SourceURL:     req.SourceURL,
		Notes:         req.Notes,
		IsLiked:       1,
		IsPublic:      isPublic,
	}
	if err := h.savedPaperRepository.CreateSavedPaper(paper); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, paper.ToResponse())
}

func (h *SavedPaperHandler) UpdateSavedPaper(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateSavedPaperRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	paper, err := h.savedPaperRepository.GetSavedPaper(currentUser(c).ID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSavedPaperNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Paper not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Notes != nil {
		paper.Notes = *req.Notes
	}
	if req.IsPublic != nil {
		paper.IsPublic = *req.IsPublic
	}
	if err := h.savedPaperRepository.UpdateSavedPaper(paper, req.Tags); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, paper.ToResponse())
}

func (h *SavedPaperHandler) DeleteSavedPaper(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.savedPaperRepository.DeleteSavedPaper(currentUser(c).ID, id); err != nil {
		if errors.Is(err, repositories.ErrSavedPaperNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Paper not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, message("Paper removed successfully"))
}

// ExportPapers streams the (optionally tag-filtered) collection as a file
func (h *SavedPaperHandler) ExportPapers(c echo.Context) error {
	var req models.ExportQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format. Use 'bibtex', 'csv', or 'text'")
	}

	papers, err := h.savedPaperRepository.GetSavedPapersByUser(currentUser(c).ID, req.Tag)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(papers) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "No papers found to export")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+format.Filename())
	return c.Blob(http.StatusOK, format.ContentType(), []byte(export.Render(format, papers)))
}
