package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

func withIdentity(user models.AuthUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

func authorizeRouter(identity *models.AuthUser, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := []gin.HandlerFunc{}
	if identity != nil {
		handlers = append(handlers, withIdentity(*identity))
	}
	handlers = append(handlers, gate, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/gated", handlers...)
	return router
}

func serveGated(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireRolesPassesOnAnyMatch(t *testing.T) {
	identity := &models.AuthUser{ID: 1, Roles: []string{"librarian"}}
	router := authorizeRouter(identity, RequireRoles("admin", "librarian"))

	rec := serveGated(router)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsMissingRole(t *testing.T) {
	identity := &models.AuthUser{ID: 1, Roles: []string{"student"}}
	router := authorizeRouter(identity, RequireRoles("admin"))

	rec := serveGated(router)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, apperr.CodeForbidden, body.Error.Code)
	assert.Equal(t, "You do not have permission to perform this action", body.Error.Message)
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	router := authorizeRouter(nil, RequireRoles("admin"))

	rec := serveGated(router)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decodeEnvelope(t, rec).Error.Message)
}

func TestRequirePermissionPasses(t *testing.T) {
	identity := &models.AuthUser{
		ID:          1,
		Permissions: map[string]struct{}{"view_users": {}},
	}
	router := authorizeRouter(identity, RequirePermission("view_users"))

	rec := serveGated(router)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequirePermissionNamesTheGate(t *testing.T) {
	identity := &models.AuthUser{ID: 1, Roles: []string{"student"}}
	router := authorizeRouter(identity, RequirePermission("delete_users"))

	rec := serveGated(router)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Permission required: delete_users", decodeEnvelope(t, rec).Error.Message)
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	router := authorizeRouter(nil, RequirePermission("view_users"))

	rec := serveGated(router)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
