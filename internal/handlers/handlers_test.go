package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elibrary/api/internal/config"
	"elibrary/api/internal/middleware"
	"elibrary/api/internal/models"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseID(t *testing.T) {
	c := testContext(t, "/books/17")
	c.Params = gin.Params{{Key: "id", Value: "17"}}

	id, err := parseID(c)
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, raw := range []string{"abc", "0", "-3", ""} {
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err := parseID(c)
		assert.Error(t, err, "id %q", raw)
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 10, 0},
		{"?page=3&limit=20", 3, 20, 40},
		{"?page=0&limit=0", 1, 10, 0},
		{"?page=-5&limit=500", 1, 10, 0},
		{"?page=2", 2, 10, 10},
	}

	for _, tc := range cases {
		c := testContext(t, "/books"+tc.query)
		page, limit, offset := pageParams(c)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
		assert.Equal(t, tc.offset, offset, tc.query)
	}
}

func TestQueryHelpers(t *testing.T) {
	c := testContext(t, "/books?categoryId=4&publicationYear=2021&isActive=false&bad=zzz")

	require.NotNil(t, queryInt64(c, "categoryId"))
	assert.Equal(t, int64(4), *queryInt64(c, "categoryId"))

	require.NotNil(t, queryInt(c, "publicationYear"))
	assert.Equal(t, 2021, *queryInt(c, "publicationYear"))

	require.NotNil(t, queryBool(c, "isActive"))
	assert.False(t, *queryBool(c, "isActive"))

	assert.Nil(t, queryInt64(c, "missing"))
	assert.Nil(t, queryInt64(c, "bad"))
	assert.Nil(t, queryBool(c, "bad"))
}

// Every lookup table exposes the full read/write surface: list and get
// are public, create/update are staff, delete is admin.
func TestMountLookupTableRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	set := NewHandlerSet(zerolog.Nop(), nil, nil, nil, &config.AppConfig{})

	engine := gin.New()
	set.Mount(engine.Group("/api"))

	mounted := make(map[string]bool)
	for _, r := range engine.Routes() {
		mounted[r.Method+" "+r.Path] = true
	}

	for _, base := range []string{"/api/publishers", "/api/departments", "/api/material-types"} {
		for _, want := range []string{
			http.MethodGet + " " + base,
			http.MethodGet + " " + base + "/:id",
			http.MethodPost + " " + base,
			http.MethodPut + " " + base + "/:id",
			http.MethodDelete + " " + base + "/:id",
		} {
			assert.True(t, mounted[want], want)
		}
	}
}

func TestIsStaff(t *testing.T) {
	c := testContext(t, "/books")
	assert.False(t, isStaff(c))

	c.Set(middleware.CurrentUserKey, models.AuthUser{ID: 1, Roles: []string{"student"}})
	assert.False(t, isStaff(c))

	c.Set(middleware.CurrentUserKey, models.AuthUser{ID: 2, Roles: []string{"librarian"}})
	assert.True(t, isStaff(c))

	c.Set(middleware.CurrentUserKey, models.AuthUser{ID: 3, Roles: []string{"admin"}})
	assert.True(t, isStaff(c))
}
