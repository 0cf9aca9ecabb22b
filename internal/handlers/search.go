package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/response"
)

func (h HandlerSet) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.searchService.Search(c.Request.Context(), c.Query("q"), c.Query("type"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{
		"query":        results.Query,
		"total":        results.Total,
		"books":        bookDTOs(results.Books),
		"thesis":       thesisDTOs(results.Thesis),
		"publications": publicationDTOs(results.Publications),
		"journals":     journalDTOs(results.Journals),
		"audios":       audioDTOs(results.Audios),
		"videos":       videoDTOs(results.Videos),
	}
	response.OK(c, payload, "Search completed")
}
