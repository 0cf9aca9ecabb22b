package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func (h HandlerSet) ListPublications(c *gin.Context) {
	page, limit, offset := pageParams(c)

	items, total, err := h.publications.List(c.Request.Context(), catalogFilter(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, publicationDTOs(items), "Publications retrieved", &pagination)
}

func (h HandlerSet) GetPublication(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.publications.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.counters.Bump(c.Request.Context(), "views:publication", id)
	response.OK(c, publicationDTO(item), "Publication retrieved")
}

type createPublicationRequest struct {
	Title       string  `json:"title" binding:"required"`
	TitleKh     *string `json:"titleKh"`
	Author      *string `json:"author"`
	Year        *int    `json:"year"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Publisher   *string `json:"publisher"`
	ISBN        *string `json:"isbn"`
	Pages       *int    `json:"pages"`
	Language    *string `json:"language"`
	CoverURL    *string `json:"coverUrl"`
	PDFURL      *string `json:"pdfUrl"`
	IsActive    *bool   `json:"isActive"`
}

func (h HandlerSet) CreatePublication(c *gin.Context) {
	var req createPublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item := models.Publication{
		Title:       req.Title,
		TitleKh:     req.TitleKh,
		Author:      req.Author,
		Year:        req.Year,
		Category:    req.Category,
		Description: req.Description,
		Publisher:   req.Publisher,
		ISBN:        req.ISBN,
		Pages:       req.Pages,
		Language:    req.Language,
		CoverURL:    req.CoverURL,
		PDFURL:      req.PDFURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	item, err := h.publications.Create(c.Request.Context(), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, publicationDTO(item), "Publication created")
}

type updatePublicationRequest struct {
	Title       *string `json:"title"`
	TitleKh     *string `json:"titleKh"`
	Author      *string `json:"author"`
	Year        *int    `json:"year"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Publisher   *string `json:"publisher"`
	ISBN        *string `json:"isbn"`
	Pages       *int    `json:"pages"`
	Language    *string `json:"language"`
	CoverURL    *string `json:"coverUrl"`
	PDFURL      *string `json:"pdfUrl"`
	IsActive    *bool   `json:"isActive"`
}

func (h HandlerSet) UpdatePublication(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item, err := h.publications.Update(c.Request.Context(), id, repository.PublicationPatch{
		Title:       req.Title,
		TitleKh:     req.TitleKh,
		Author:      req.Author,
		Year:        req.Year,
		Category:    req.Category,
		Description: req.Description,
		Publisher:   req.Publisher,
		ISBN:        req.ISBN,
		Pages:       req.Pages,
		Language:    req.Language,
		CoverURL:    req.CoverURL,
		PDFURL:      req.PDFURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, publicationDTO(item), "Publication updated")
}

func (h HandlerSet) DeletePublication(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.publications.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Publication deleted")
}
