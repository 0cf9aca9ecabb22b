package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
)

// Pagination mirrors the wire shape clients already depend on.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type successBody struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type errorBody struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func OK(c *gin.Context, data any, message string) {
	Success(c, http.StatusOK, data, message, nil)
}

func Created(c *gin.Context, data any, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

func Success(c *gin.Context, status int, data any, message string, pagination *Pagination) {
	if message == "" {
		message = "Success"
	}
	c.JSON(status, successBody{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Error is the single translation point from the error taxonomy to the
// HTTP envelope.
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Status, errorBody{
		Success: false,
		Error: errorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// AbortError terminates the middleware chain with an error envelope.
func AbortError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.AbortWithStatusJSON(appErr.Status, errorBody{
		Success: false,
		Error: errorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

func Paginate(page, limit int, totalItems int64) Pagination {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}
