package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func (h HandlerSet) ListRoles(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roleDTOs(roles), "Roles retrieved")
}

func (h HandlerSet) GetRole(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	role, err := h.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roleDTO(role), "Role retrieved")
}

type roleRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=50"`
	Description   string  `json:"description"`
	PermissionIDs []int64 `json:"permissionIds"`
}

func (h HandlerSet) CreateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	role, err := h.roles.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(req.PermissionIDs) > 0 {
		if err := h.roles.SetPermissions(c.Request.Context(), role.ID, req.PermissionIDs); err != nil {
			response.Error(c, err)
			return
		}
		role, err = h.roles.GetByID(c.Request.Context(), role.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	response.Created(c, roleDTO(role), "Role created")
}

type updateRoleRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PermissionIDs []int64 `json:"permissionIds"`
}

func (h HandlerSet) UpdateRole(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	role, err := h.roles.Update(c.Request.Context(), id, repository.RolePatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.PermissionIDs != nil {
		if err := h.roles.SetPermissions(c.Request.Context(), role.ID, req.PermissionIDs); err != nil {
			response.Error(c, err)
			return
		}
	}

	role, err = h.roles.GetByID(c.Request.Context(), role.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, roleDTO(role), "Role updated")
}

func (h HandlerSet) DeleteRole(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.roles.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Role deleted")
}

func (h HandlerSet) SetRolePermissions(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req setPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	if err := h.roles.SetPermissions(c.Request.Context(), id, req.PermissionIDs); err != nil {
		response.Error(c, err)
		return
	}

	role, err := h.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, roleDTO(role), "Permissions assigned")
}
