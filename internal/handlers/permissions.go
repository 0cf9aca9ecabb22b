package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func (h HandlerSet) ListPermissions(c *gin.Context) {
	perms, err := h.permissions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, permissionDTOs(perms), "Permissions retrieved")
}

func (h HandlerSet) GetPermission(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	perm, err := h.permissions.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, permissionDTO(perm), "Permission retrieved")
}

type permissionRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
}

func (h HandlerSet) CreatePermission(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	perm, err := h.permissions.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, permissionDTO(perm), "Permission created")
}

type updatePermissionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h HandlerSet) UpdatePermission(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	perm, err := h.permissions.Update(c.Request.Context(), id, repository.PermissionPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, permissionDTO(perm), "Permission updated")
}

func (h HandlerSet) DeletePermission(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.permissions.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Permission deleted")
}
