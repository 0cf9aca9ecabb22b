package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/response"
)

// RequireRoles passes when the user holds at least one of the named
// roles. It must run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.AbortError(c, apperr.Authentication("Authentication required"))
			return
		}

		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}

		response.AbortError(c, apperr.Authorization("You do not have permission to perform this action"))
	}
}

// RequirePermission passes only when the user's effective permission
// set contains the named permission.
func RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.AbortError(c, apperr.Authentication("Authentication required"))
			return
		}

		if !user.HasPermission(name) {
			response.AbortError(c, apperr.Authorization(fmt.Sprintf("Permission required: %s", name)))
			return
		}

		c.Next()
	}
}
