package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/arxiv"
	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// PaperSource looks papers up in the external catalogue
type PaperSource interface {
	Search(ctx context.Context, params arxiv.SearchParams) []arxiv.Paper
	GetPaper(ctx context.Context, id string) *arxiv.Paper
}

// PaperHandler proxies search to the external source and records interactions
type PaperHandler struct {
	source                PaperSource
	interactionRepository repositories.InteractionRepository
}

func NewPaperHandler(source PaperSource, interactionRepo repositories.InteractionRepository) *PaperHandler {
	return &PaperHandler{
		source:                source,
		interactionRepository: interactionRepo,
	}
}

// RegisterPaperRoutes registers paper routes. optional resolves the caller
// when a token is present; required rejects anonymous or inactive callers.
func (h *PaperHandler) RegisterPaperRoutes(g *echo.Group, optional echo.MiddlewareFunc, required ...echo.MiddlewareFunc) {
	g.GET("/search", h.Search, optional)
	g.POST("/interaction", h.RecordInteraction, required...)
	g.GET("/:external_id", h.GetPaper)
}

// Search queries the source; authenticated callers don't see papers they
// already interacted with
func (h *PaperHandler) Search(c echo.Context) error {
	req := models.SearchPapersQuery{
		SortBy:     arxiv.SortRelevance,
		MaxResults: arxiv.DefaultMaxResults,
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	params := arxiv.SearchParams{
		Query:      req.Query,
		Categories: splitCategories(req.Categories),
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		SortBy:     req.SortBy,
		Start:      req.Start,
		MaxResults: req.MaxResults,
	}
	papers := h.source.Search(c.Request().Context(), params)

	if user := currentUser(c); user != nil {
		seen, err := h.interactionRepository.GetInteractedArxivIDs(user.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		unseen := make([]arxiv.Paper, 0, len(papers))
		for _, p := range papers {
			if !seen[p.ArxivID] {
				unseen = append(unseen, p)
			}
		}
		papers = unseen
	}

	return c.JSON(http.StatusOK, papers)
}

// GetPaper returns one paper by its external id
func (h *PaperHandler) GetPaper(c echo.Context) error {
	id, err := url.PathUnescape(c.Param("external_id"))
	if err != nil || strings.TrimSpace(id) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid paper id")
	}

	paper := h.source.GetPaper(c.Request().Context(), id)
	if paper == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Paper not found")
	}
	return c.JSON(http.StatusOK, paper)
}

// RecordInteraction appends a view/like/dislike/save for the caller
func (h *PaperHandler) RecordInteraction(c echo.Context) error {
	var req models.CreateInteractionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	interaction := &models.PaperInteraction{
		UserID:          currentUser(c).ID,
		ArxivID:         req.ArxivID,
		InteractionType: req.InteractionType,
	}
	if err := h.interactionRepository.CreateInteraction(interaction); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, message("Interaction recorded successfully"))
}

func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var cats []string
	for _, cat := range strings.Split(raw, ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			cats = append(cats, cat)
		}
	}
	return cats
}
