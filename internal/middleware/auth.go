package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/config"
	"elibrary/api/internal/models"
	"elibrary/api/internal/response"
	"elibrary/api/internal/security"
	"elibrary/api/internal/service"
)

// CurrentUserKey is where the authenticated identity lives in the
// request context.
const CurrentUserKey = "current_user"

// UserSource loads the account behind a verified token.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// Authenticate verifies the bearer token and attaches the current
// identity. Roles and permissions are re-read from the store so that
// revocations take effect on the next request, not the next login.
func Authenticate(cfg config.SecurityConfig, users UserSource, resolver *service.AccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, cfg, users, resolver)
		if err != nil {
			response.AbortError(c, err)
			return
		}
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// lets the request through anonymously otherwise.
func OptionalAuth(cfg config.SecurityConfig, users UserSource, resolver *service.AccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := authenticate(c, cfg, users, resolver); err == nil {
			c.Set(CurrentUserKey, user)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, cfg config.SecurityConfig, users UserSource, resolver *service.AccessResolver) (models.AuthUser, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return models.AuthUser{}, apperr.Authentication("Authentication required")
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := security.ParseAccessToken(tokenStr, cfg.AccessSecret)
	if err != nil {
		return models.AuthUser{}, apperr.Authentication("Invalid or expired token")
	}

	user, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		return models.AuthUser{}, apperr.Authentication("Invalid authentication")
	}

	access, err := resolver.Resolve(c.Request.Context(), user.ID)
	if err != nil {
		return models.AuthUser{}, apperr.Authentication("Invalid authentication")
	}

	return models.AuthUser{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		StudentID:   user.StudentID,
		Roles:       access.Roles,
		Permissions: access.Permissions,
	}, nil
}

// CurrentUser fetches the identity set by Authenticate.
func CurrentUser(c *gin.Context) (models.AuthUser, bool) {
	val, exists := c.Get(CurrentUserKey)
	if !exists {
		return models.AuthUser{}, false
	}
	user, ok := val.(models.AuthUser)
	return user, ok
}
