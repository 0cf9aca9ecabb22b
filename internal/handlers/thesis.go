package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func catalogFilter(c *gin.Context) repository.CatalogFilter {
	filter := repository.CatalogFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Year:     queryInt(c, "year"),
		IsActive: queryBool(c, "isActive"),
	}
	if !isStaff(c) {
		active := true
		filter.IsActive = &active
	}
	return filter
}

func (h HandlerSet) ListThesis(c *gin.Context) {
	page, limit, offset := pageParams(c)

	items, total, err := h.thesis.List(c.Request.Context(), catalogFilter(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, thesisDTOs(items), "Thesis retrieved", &pagination)
}

func (h HandlerSet) GetThesis(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.thesis.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.counters.Bump(c.Request.Context(), "views:thesis", id)
	response.OK(c, thesisDTO(item), "Thesis retrieved")
}

type createThesisRequest struct {
	Title       string  `json:"title" binding:"required"`
	TitleKh     *string `json:"titleKh"`
	Author      *string `json:"author"`
	Supervisor  *string `json:"supervisor"`
	Major       *string `json:"major"`
	University  *string `json:"university"`
	Year        *int    `json:"year"`
	Abstract    *string `json:"abstract"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
	PDFURL      *string `json:"pdfUrl"`
	Category    *string `json:"category"`
	Pages       *int    `json:"pages"`
	IsActive    *bool   `json:"isActive"`
}

func (h HandlerSet) CreateThesis(c *gin.Context) {
	var req createThesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item := models.Thesis{
		Title:       req.Title,
		TitleKh:     req.TitleKh,
		Author:      req.Author,
		Supervisor:  req.Supervisor,
		Major:       req.Major,
		University:  req.University,
		Year:        req.Year,
		Abstract:    req.Abstract,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		PDFURL:      req.PDFURL,
		Category:    req.Category,
		Pages:       req.Pages,
		IsActive:    true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	item, err := h.thesis.Create(c.Request.Context(), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thesisDTO(item), "Thesis created")
}

type updateThesisRequest struct {
	Title       *string `json:"title"`
	TitleKh     *string `json:"titleKh"`
	Author      *string `json:"author"`
	Supervisor  *string `json:"supervisor"`
	Major       *string `json:"major"`
	University  *string `json:"university"`
	Year        *int    `json:"year"`
	Abstract    *string `json:"abstract"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
	PDFURL      *string `json:"pdfUrl"`
	Category    *string `json:"category"`
	Pages       *int    `json:"pages"`
	IsActive    *bool   `json:"isActive"`
}

func (h HandlerSet) UpdateThesis(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateThesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item, err := h.thesis.Update(c.Request.Context(), id, repository.ThesisPatch{
		Title:       req.Title,
		TitleKh:     req.TitleKh,
		Author:      req.Author,
		Supervisor:  req.Supervisor,
		Major:       req.Major,
		University:  req.University,
		Year:        req.Year,
		Abstract:    req.Abstract,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		PDFURL:      req.PDFURL,
		Category:    req.Category,
		Pages:       req.Pages,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, thesisDTO(item), "Thesis updated")
}

func (h HandlerSet) DeleteThesis(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.thesis.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Thesis deleted")
}
