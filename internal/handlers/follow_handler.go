package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// FollowHandler handles the follow graph and user profiles
type FollowHandler struct {
	followRepository     repositories.FollowRepository
	userRepository       repositories.UserRepository
	savedPaperRepository repositories.SavedPaperRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, savedPaperRepo repositories.SavedPaperRepository) *FollowHandler {
	return &FollowHandler{
		followRepository:     followRepo,
		userRepository:       userRepo,
		savedPaperRepository: savedPaperRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes. The profile route
// takes optional auth, the rest require an active user.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, optional echo.MiddlewareFunc, required ...echo.MiddlewareFunc) {
	g.GET("/profile/:user_id", h.GetProfile, optional)
	g.POST("/follow/:user_id", h.FollowUser, required...)
	g.DELETE("/follow/:user_id", h.UnfollowUser, required...)
	g.GET("/followers", h.GetFollowers, required...)
	g.GET("/following", h.GetFollowing, required...)
}

// GetProfile returns a user's public profile with live counts
func (h *FollowHandler) GetProfile(c echo.Context) error {
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile, err := h.profileWithCounts(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if viewer := currentUser(c); viewer != nil {
		profile.IsFollowing, err = h.followRepository.IsFollowing(viewer.ID, targetID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, profile)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	currentUserID := currentUser(c).ID
	if currentUserID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Check if already following
	isFollowing, err := h.followRepository.IsFollowing(currentUserID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isFollowing {
		return echo.NewHTTPError(http.StatusBadRequest, "Already following this user")
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: targetID,
	}
	if err := h.followRepository.CreateFollow(follow); err != nil {
		// a concurrent request inserted the same edge first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusBadRequest, "Already following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, message("Successfully followed user"))
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	targetID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.followRepository.DeleteFollow(currentUser(c).ID, targetID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, message("Successfully unfollowed user"))
}

// GetFollowers lists the users following the caller
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, err := h.followRepository.GetFollowers(currentUser(c).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profiles, err := h.profilesWithCounts(users)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, models.FollowersResponse{Followers: profiles, Total: len(profiles)})
}

// GetFollowing lists the users the caller follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, err := h.followRepository.GetFollowing(currentUser(c).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profiles, err := h.profilesWithCounts(users)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, models.FollowingResponse{Following: profiles, Total: len(profiles)})
}

// profilesWithCounts builds listing entries; every entry is flagged as followed
func (h *FollowHandler) profilesWithCounts(users []models.User) ([]models.UserProfile, error) {
	profiles := make([]models.UserProfile, 0, len(users))
	for i := range users {
		profile, err := h.profileWithCounts(&users[i])
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = true
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (h *FollowHandler) profileWithCounts(user *models.User) (models.UserProfile, error) {
	profile := user.ToProfile()

	var err error
	if profile.FollowersCount, err = h.followRepository.GetFollowersCount(user.ID); err != nil {
		return profile, err
	}
	if profile.FollowingCount, err = h.followRepository.GetFollowingCount(user.ID); err != nil {
		return profile, err
	}
	if profile.SavedPapersCount, err = h.savedPaperRepository.CountSavedPapers(user.ID); err != nil {
		return profile, err
	}
	return profile, nil
}
