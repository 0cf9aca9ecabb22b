package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/response"
)

func (h HandlerSet) StatsOverview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview, "Statistics retrieved")
}

func (h HandlerSet) StatsPopular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	books, err := h.statsService.PopularBooks(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, bookDTOs(books), "Popular books retrieved")
}

func (h HandlerSet) StatsRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	books, thesis, err := h.statsService.RecentAdditions(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"books":  bookDTOs(books),
		"thesis": thesisDTOs(thesis),
	}, "Recent additions retrieved")
}
