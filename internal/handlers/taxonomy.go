package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.taxonomy.ListCategories(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryDTO(cat))
	}
	response.OK(c, out, "Categories retrieved")
}

func (h HandlerSet) GetCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	category, err := h.taxonomy.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categoryDTO(category), "Category retrieved")
}

type categoryRequest struct {
	Name   string  `json:"name" binding:"required"`
	NameKh *string `json:"nameKh"`
	Icon   *string `json:"icon"`
	Type   string  `json:"type" binding:"required"`
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	category, err := h.taxonomy.CreateCategory(c.Request.Context(), models.Category{
		Name:   req.Name,
		NameKh: req.NameKh,
		Icon:   req.Icon,
		Type:   req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, categoryDTO(category), "Category created")
}

type updateCategoryRequest struct {
	Name   *string `json:"name"`
	NameKh *string `json:"nameKh"`
	Icon   *string `json:"icon"`
	Type   *string `json:"type"`
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	category, err := h.taxonomy.UpdateCategory(c.Request.Context(), id, repository.CategoryPatch{
		Name:   req.Name,
		NameKh: req.NameKh,
		Icon:   req.Icon,
		Type:   req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categoryDTO(category), "Category updated")
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.taxonomy.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Category deleted")
}

func (h HandlerSet) ListAuthors(c *gin.Context) {
	authors, err := h.taxonomy.ListAuthors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]authorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, authorDTO(a))
	}
	response.OK(c, out, "Authors retrieved")
}

func (h HandlerSet) GetAuthor(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	author, err := h.taxonomy.GetAuthor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, authorDTO(author), "Author retrieved")
}

type authorRequest struct {
	Name      string  `json:"name" binding:"required"`
	NameKh    *string `json:"nameKh"`
	Biography *string `json:"biography"`
	Website   *string `json:"website"`
}

func (h HandlerSet) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	author, err := h.taxonomy.CreateAuthor(c.Request.Context(), models.Author{
		Name:      req.Name,
		NameKh:    req.NameKh,
		Biography: req.Biography,
		Website:   req.Website,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, authorDTO(author), "Author created")
}

type updateAuthorRequest struct {
	Name      *string `json:"name"`
	NameKh    *string `json:"nameKh"`
	Biography *string `json:"biography"`
	Website   *string `json:"website"`
}

func (h HandlerSet) UpdateAuthor(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	author, err := h.taxonomy.UpdateAuthor(c.Request.Context(), id, repository.AuthorPatch{
		Name:      req.Name,
		NameKh:    req.NameKh,
		Biography: req.Biography,
		Website:   req.Website,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, authorDTO(author), "Author updated")
}

func (h HandlerSet) DeleteAuthor(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.taxonomy.DeleteAuthor(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Author deleted")
}

type nameRequest struct {
	Name   string  `json:"name" binding:"required"`
	NameKh *string `json:"nameKh"`
	Code   *string `json:"code"`
}

type updateNameRequest struct {
	Name   *string `json:"name"`
	NameKh *string `json:"nameKh"`
	Code   *string `json:"code"`
}

func (h HandlerSet) ListPublishers(c *gin.Context) {
	publishers, err := h.taxonomy.ListPublishers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]publisherResponse, 0, len(publishers))
	for _, p := range publishers {
		out = append(out, publisherResponse{ID: p.ID, Name: p.Name, NameKh: p.NameKh})
	}
	response.OK(c, out, "Publishers retrieved")
}

func (h HandlerSet) CreatePublisher(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	publisher, err := h.taxonomy.CreatePublisher(c.Request.Context(), models.Publisher{
		Name:   req.Name,
		NameKh: req.NameKh,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, publisherResponse{ID: publisher.ID, Name: publisher.Name, NameKh: publisher.NameKh}, "Publisher created")
}

func (h HandlerSet) GetPublisher(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	publisher, err := h.taxonomy.GetPublisher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, publisherResponse{ID: publisher.ID, Name: publisher.Name, NameKh: publisher.NameKh}, "Publisher retrieved")
}

func (h HandlerSet) UpdatePublisher(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	publisher, err := h.taxonomy.UpdatePublisher(c.Request.Context(), id, repository.PublisherPatch{
		Name:   req.Name,
		NameKh: req.NameKh,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, publisherResponse{ID: publisher.ID, Name: publisher.Name, NameKh: publisher.NameKh}, "Publisher updated")
}

func (h HandlerSet) DeletePublisher(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.taxonomy.DeletePublisher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Publisher deleted")
}

func (h HandlerSet) ListDepartments(c *gin.Context) {
	departments, err := h.taxonomy.ListDepartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]departmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, departmentResponse{ID: d.ID, Name: d.Name, Code: d.Code})
	}
	response.OK(c, out, "Departments retrieved")
}

func (h HandlerSet) CreateDepartment(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	department, err := h.taxonomy.CreateDepartment(c.Request.Context(), models.Department{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, departmentResponse{ID: department.ID, Name: department.Name, Code: department.Code}, "Department created")
}

func (h HandlerSet) GetDepartment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	department, err := h.taxonomy.GetDepartment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, departmentResponse{ID: department.ID, Name: department.Name, Code: department.Code}, "Department retrieved")
}

func (h HandlerSet) UpdateDepartment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	department, err := h.taxonomy.UpdateDepartment(c.Request.Context(), id, repository.DepartmentPatch{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, departmentResponse{ID: department.ID, Name: department.Name, Code: department.Code}, "Department updated")
}

func (h HandlerSet) DeleteDepartment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.taxonomy.DeleteDepartment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Department deleted")
}

func (h HandlerSet) ListMaterialTypes(c *gin.Context) {
	types, err := h.taxonomy.ListMaterialTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]materialTypeResponse, 0, len(types))
	for _, m := range types {
		out = append(out, materialTypeResponse{ID: m.ID, Name: m.Name, NameKh: m.NameKh})
	}
	response.OK(c, out, "Material types retrieved")
}

func (h HandlerSet) CreateMaterialType(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	materialType, err := h.taxonomy.CreateMaterialType(c.Request.Context(), models.MaterialType{
		Name:   req.Name,
		NameKh: req.NameKh,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, materialTypeResponse{ID: materialType.ID, Name: materialType.Name, NameKh: materialType.NameKh}, "Material type created")
}

func (h HandlerSet) GetMaterialType(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	materialType, err := h.taxonomy.GetMaterialType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materialTypeResponse{ID: materialType.ID, Name: materialType.Name, NameKh: materialType.NameKh}, "Material type retrieved")
}

func (h HandlerSet) UpdateMaterialType(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	materialType, err := h.taxonomy.UpdateMaterialType(c.Request.Context(), id, repository.MaterialTypePatch{
		Name:   req.Name,
		NameKh: req.NameKh,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materialTypeResponse{ID: materialType.ID, Name: materialType.Name, NameKh: materialType.NameKh}, "Material type updated")
}

func (h HandlerSet) DeleteMaterialType(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.taxonomy.DeleteMaterialType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Material type deleted")
}
