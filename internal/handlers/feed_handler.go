package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// FeedHandler serves the activity feed and trending papers
type FeedHandler struct {
	savedPaperRepository repositories.SavedPaperRepository
	userRepository       repositories.UserRepository
	followRepository     repositories.FollowRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	savedPaperRepo repositories.SavedPaperRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
) *FeedHandler {
	return &FeedHandler{
		savedPaperRepository: savedPaperRepo,
		userRepository:       userRepo,
		followRepository:     followRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes. Trending is public.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, required ...echo.MiddlewareFunc) {
	g.GET("/trending", h.GetTrending)
	g.GET("/feed", h.GetFeed, required...)
}

// GetTrending ranks public papers by saves inside the trailing window
func (h *FeedHandler) GetTrending(c echo.Context) error {
	req := models.TrendingQuery{Days: 7, Limit: 10}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	since := time.Now().UTC().AddDate(0, 0, -req.Days)
	trending, err := h.savedPaperRepository.GetTrending(since, req.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, trending)
}

// GetFeed returns recent public saves of the users the caller follows.
// User counts are left at zero in this view.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	req := models.FeedQuery{Limit: 20}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUser(c).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(followingIDs) == 0 {
		return c.JSON(http.StatusOK, []models.FeedItem{})
	}

	saves, err := h.savedPaperRepository.GetPublicSavesByUsers(followingIDs, req.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	userIDs := make([]uint, 0, len(saves))
	for _, s := range saves {
		userIDs = append(userIDs, s.UserID)
	}
	users, err := h.userRepository.GetUsersByIDs(userIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	feed := make([]models.FeedItem, 0, len(saves))
	for i := range saves {
		user, ok := users[saves[i].UserID]
		if !ok {
			continue
		}
		profile := user.ToProfile()
		profile.IsFollowing = true
		feed = append(feed, models.FeedItem{
			User:      profile,
			Paper:     saves[i].ToSummary(),
			Action:    "saved",
			CreatedAt: saves[i].SavedAt,
		})
	}
	return c.JSON(http.StatusOK, feed)
}
