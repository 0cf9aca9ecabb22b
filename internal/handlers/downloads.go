package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/middleware"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.Parse("2006-01-02", raw); err != nil {
			return nil
		}
	}
	return &t
}

func (h HandlerSet) ListDownloads(c *gin.Context) {
	page, limit, offset := pageParams(c)

	filter := repository.DownloadFilter{
		UserID: queryInt64(c, "userId"),
		BookID: queryInt64(c, "bookId"),
		From:   queryTime(c, "from"),
		To:     queryTime(c, "to"),
	}

	items, total, err := h.downloads.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, downloadDTOs(items), "Downloads retrieved", &pagination)
}

func (h HandlerSet) MyDownloads(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Authentication("Authentication required"))
		return
	}
	page, limit, offset := pageParams(c)

	items, total, err := h.downloads.ListByUser(c.Request.Context(), current.ID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, downloadDTOs(items), "Download history retrieved", &pagination)
}

func (h HandlerSet) DownloadStats(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	top, err := h.downloads.TopBooks(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	total, err := h.downloads.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"total":    total,
		"topBooks": topBookDTOs(top),
	}, "Download statistics retrieved")
}
