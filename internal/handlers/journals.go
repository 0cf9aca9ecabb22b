package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func (h HandlerSet) ListJournals(c *gin.Context) {
	page, limit, offset := pageParams(c)

	items, total, err := h.journals.List(c.Request.Context(), catalogFilter(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, journalDTOs(items), "Journals retrieved", &pagination)
}

func (h HandlerSet) GetJournal(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.journals.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.counters.Bump(c.Request.Context(), "views:journal", id)
	response.OK(c, journalDTO(item), "Journal retrieved")
}

type createJournalRequest struct {
	Title       string  `json:"title" binding:"required"`
	TitleKh     *string `json:"titleKh"`
	Author      *string `json:"author"`
	Abstract    *string `json:"abstract"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
	PDFURL      *string `json:"pdfUrl"`
	Year        *int    `json:"year"`
	Category    *string `json:"category"`
	Pages       *int    `json:"pages"`
	Volume      *string `json:"volume"`
	ISSN        *string `json:"issn"`
	Publisher   *string `json:"publisher"`
	Language    *string `json:"language"`
	IsActive    *bool   `json:"isActive"`
}

func (h HandlerSet) CreateJournal(c *gin.Context) {
	var req createJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item := models.Journal{
		Title:       req.Title,
		TitleKh:     req.TitleKh,
		Author:      req.Author,
		Abstract:    req.Abstract,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		PDFURL:      req.PDFURL,
		Year:        req.Year,
		Category:    req.Category,
		Pages:       req.Pages,
		Volume:      req.Volume,
		ISSN:        req.ISSN,
		Publisher:   req.Publisher,
		Language:    req.Language,
		IsActive:    true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	item, err := h.journals.Create(c.Request.Context(), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, journalDTO(item), "Journal created")
}

type updateJournalRequest struct {
	Title       *string `json:"title"`
	TitleKh     *string `json:"titleKh"`
	Author      *string `json:"author"`
	Abstract    *string `json:"abstract"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
	PDFURL      *string `json:"pdfUrl"`
	Year        *int    `json:"year"`
	Category    *string `json:"category"`
	Pages       *int    `json:"pages"`
	Volume      *string `json:"volume"`
	ISSN        *string `json:"issn"`
	Publisher   *string `json:"publisher"`
	Language    *string `json:"language"`
	IsActive    *bool   `json:"isActive"`
}

func (h HandlerSet) UpdateJournal(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item, err := h.journals.Update(c.Request.Context(), id, repository.JournalPatch{
		Title:       req.Title,
		TitleKh:     req.TitleKh,
		Author:      req.Author,
		Abstract:    req.Abstract,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		PDFURL:      req.PDFURL,
		Year:        req.Year,
		Category:    req.Category,
		Pages:       req.Pages,
		Volume:      req.Volume,
		ISSN:        req.ISSN,
		Publisher:   req.Publisher,
		Language:    req.Language,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, journalDTO(item), "Journal updated")
}

func (h HandlerSet) DeleteJournal(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.journals.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Journal deleted")
}
