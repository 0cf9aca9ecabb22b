package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/middleware"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
	"elibrary/api/internal/security"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	page, limit, offset := pageParams(c)

	users, total, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, userDTOs(users), "Users retrieved", &pagination)
}

func (h HandlerSet) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	roles, err := h.roles.ListByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	direct, err := h.permissions.ListDirectByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"user":        userDTO(user),
		"roles":       roleDTOs(roles),
		"permissions": permissionDTOs(direct),
	}, "User retrieved")
}

type createUserRequest struct {
	Username  string  `json:"username" binding:"required,min=3,max=50"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	StudentID *string `json:"studentId"`
	IsActive  *bool   `json:"isActive"`
	RoleIDs   []int64 `json:"roleIds"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		StudentID:    req.StudentID,
		IsActive:     true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	user, err = h.users.Create(c.Request.Context(), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(req.RoleIDs) > 0 {
		if err := h.users.SetRoles(c.Request.Context(), user.ID, req.RoleIDs); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.Created(c, userDTO(user), "User created")
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	StudentID *string `json:"studentId"`
	AvatarURL *string `json:"avatarUrl"`
	IsActive  *bool   `json:"isActive"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, repository.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		StudentID: req.StudentID,
		AvatarURL: req.AvatarURL,
		IsActive:  req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, userDTO(user), "User updated")
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// an account cannot remove itself
	if current, ok := middleware.CurrentUser(c); ok && current.ID == id {
		response.Error(c, apperr.Validation("You cannot delete your own account"))
		return
	}

	if err := h.users.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "User deleted")
}

type setRolesRequest struct {
	RoleIDs []int64 `json:"roleIds" binding:"required"`
}

func (h HandlerSet) SetUserRoles(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req setRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.users.SetRoles(c.Request.Context(), id, req.RoleIDs); err != nil {
		response.Error(c, err)
		return
	}

	roles, err := h.roles.ListByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, roleDTOs(roles), "Roles assigned")
}

type setPermissionsRequest struct {
	PermissionIDs []int64 `json:"permissionIds" binding:"required"`
}

func (h HandlerSet) SetUserPermissions(c *gin.Context) {
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

	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.users.SetPermissions(c.Request.Context(), id, req.PermissionIDs); err != nil {
		response.Error(c, err)
		return
	}

	direct, err := h.permissions.ListDirectByUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, permissionDTOs(direct), "Permissions assigned")
}
