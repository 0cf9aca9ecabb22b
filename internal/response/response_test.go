package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"elibrary/api/internal/apperr"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		limit      int
		totalItems int64
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"first of many", 1, 10, 45, 5, true, false},
		{"middle page", 3, 10, 45, 5, true, true},
		{"last page", 5, 10, 45, 5, false, true},
		{"exact multiple", 2, 10, 20, 2, false, true},
		{"single page", 1, 10, 3, 1, false, false},
		{"empty result", 1, 10, 0, 0, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(tc.page, tc.limit, tc.totalItems)
			assert.Equal(t, tc.page, p.CurrentPage)
			assert.Equal(t, tc.limit, p.ItemsPerPage)
			assert.Equal(t, tc.totalItems, p.TotalItems)
			assert.Equal(t, tc.totalPages, p.TotalPages)
			assert.Equal(t, tc.hasNext, p.HasNextPage)
			assert.Equal(t, tc.hasPrev, p.HasPrevPage)
		})
	}
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, apperr.NotFound("Book not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Book not found"}}`, rec.Body.String())
}

func TestErrorHidesUnknownCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, errors.New("pq: column does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, rec.Body.String())
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	OK(c, gin.H{"id": 1}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Success","data":{"id":1}}`, rec.Body.String())
}
