package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/config"
	"elibrary/api/internal/models"
	"elibrary/api/internal/security"
	"elibrary/api/internal/service"
)

type stubUsers struct {
	users map[int64]models.User
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("User not found")
	}
	return user, nil
}

type stubRoleNames struct {
	names []string
}

func (s *stubRoleNames) ListNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	return s.names, nil
}

type stubPermissions struct {
	granted []models.Permission
}

func (s *stubPermissions) ListByUserRoles(ctx context.Context, userID int64) ([]models.Permission, error) {
	return s.granted, nil
}

func (s *stubPermissions) ListDirectByUser(ctx context.Context, userID int64) ([]models.Permission, error) {
	return nil, nil
}

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func gateConfig() config.SecurityConfig {
	return config.SecurityConfig{
		AccessSecret:  "gate-access-secret",
		RefreshSecret: "gate-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    168 * time.Hour,
	}
}

func gateRouter(cfg config.SecurityConfig, users *stubUsers, roles []string, granted []models.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := service.NewAccessResolver(&stubRoleNames{names: roles}, &stubPermissions{granted: granted})

	router := gin.New()
	router.GET("/protected", Authenticate(cfg, users, resolver), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username, "roles": user.Roles})
	})
	router.GET("/optional", OptionalAuth(cfg, users, resolver), func(c *gin.Context) {
		_, authed := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	return router
}

func signFor(t *testing.T, cfg config.SecurityConfig, userID int64) string {
	t.Helper()
	token, err := security.SignAccessToken(cfg.AccessSecret, userID, "reader", "reader@example.com", "", nil, cfg.AccessTTL)
	require.NoError(t, err)
	return token
}

func TestAuthenticateRequiresHeader(t *testing.T) {
	router := gateRouter(gateConfig(), &stubUsers{}, nil, nil)

	for _, header := range []string{"", "Basic abc123", "bearer lowercase"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeEnvelope(t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, apperr.CodeAuthentication, body.Error.Code)
		assert.Equal(t, "Authentication required", body.Error.Message)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	router := gateRouter(gateConfig(), &stubUsers{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeEnvelope(t, rec).Error.Message)
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	cfg := gateConfig()
	router := gateRouter(cfg, &stubUsers{users: map[int64]models.User{}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, cfg, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication", decodeEnvelope(t, rec).Error.Message)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	cfg := gateConfig()
	users := &stubUsers{users: map[int64]models.User{
		42: {ID: 42, Username: "reader", IsActive: false},
	}}
	router := gateRouter(cfg, users, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, cfg, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication", decodeEnvelope(t, rec).Error.Message)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	cfg := gateConfig()
	users := &stubUsers{users: map[int64]models.User{
		42: {ID: 42, Username: "reader", Email: "reader@example.com", IsActive: true},
	}}
	router := gateRouter(cfg, users, []string{"librarian"}, []models.Permission{{ID: 1, Name: "create_books"}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, cfg, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"reader","roles":["librarian"]}`, rec.Body.String())
}

func TestOptionalAuthAbsorbsFailures(t *testing.T) {
	router := gateRouter(gateConfig(), &stubUsers{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authed":false}`, rec.Body.String())
}

func TestOptionalAuthAttachesValidIdentity(t *testing.T) {
	cfg := gateConfig()
	users := &stubUsers{users: map[int64]models.User{
		42: {ID: 42, Username: "reader", IsActive: true},
	}}
	router := gateRouter(cfg, users, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+signFor(t, cfg, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authed":true}`, rec.Body.String())
}
