package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// TagHandler handles a user's tags
type TagHandler struct {
	tagRepository repositories.TagRepository
}

func NewTagHandler(tagRepo repositories.TagRepository) *TagHandler {
	return &TagHandler{tagRepository: tagRepo}
}

// RegisterTagRoutes registers tag routes
func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("/tags", h.ListTags)
	g.POST("/tags", h.CreateTag)
	g.DELETE("/tags/:id", h.DeleteTag)
}

func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tagRepository.GetTagsByUser(currentUser(c).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) CreateTag(c echo.Context) error {
	var req models.CreateTagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID := currentUser(c).ID
	exists, err := h.tagRepository.TagExists(userID, req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Tag already exists")
	}

	tag := &models.Tag{UserID: userID, Name: req.Name, Color: req.Color}
	if err := h.tagRepository.CreateTag(tag); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.tagRepository.DeleteTag(currentUser(c).ID, id); err != nil {
		if errors.Is(err, repositories.ErrTagNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Tag not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, message("Tag deleted successfully"))
}
