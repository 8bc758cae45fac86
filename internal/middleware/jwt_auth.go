package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paperswipe/backend/internal/auth"
	"github.com/paperswipe/backend/internal/models"
	"github.com/paperswipe/backend/internal/repositories"
)

// UserContextKey is where the resolved *models.User is stored on the echo context
const UserContextKey = "user"

func credentialsError() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
}

// JWTAuthMiddleware requires a valid bearer access token for an existing user.
func JWTAuthMiddleware(tokens *auth.TokenManager, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := resolveUser(c, tokens, users)
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return credentialsError()
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// RequireActive rejects deactivated accounts. It must run after JWTAuthMiddleware.
func RequireActive() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserContextKey).(*models.User)
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return credentialsError()
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "Inactive user")
			}
			return next(c)
		}
	}
}

// OptionalJWTAuth resolves the caller when a usable token is present and
// otherwise lets the request through anonymously.
func OptionalJWTAuth(tokens *auth.TokenManager, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := resolveUser(c, tokens, users); ok {
				c.Set(UserContextKey, user)
			}
			return next(c)
		}
	}
}

func resolveUser(c echo.Context, tokens *auth.TokenManager, users repositories.UserRepository) (*models.User, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, false
	}

	// Expecting "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, false
	}

	userID, err := tokens.Verify(parts[1], auth.TypeAccess)
	if err != nil {
		return nil, false
	}

	user, err := users.GetUserByID(userID)
	if err != nil {
		return nil, false
	}
	return user, true
}
