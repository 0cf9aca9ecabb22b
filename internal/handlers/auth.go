package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/middleware"
	"elibrary/api/internal/response"
	"elibrary/api/internal/service"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	StudentID string `json:"studentId"`
}

type authPayload struct {
	User        userResponse      `json:"user"`
	Roles       []string          `json:"roles"`
	Permissions []string          `json:"permissions"`
	Tokens      service.TokenPair `json:"tokens"`
}

func authDTO(result service.AuthResult) authPayload {
	roles := result.Roles
	if roles == nil {
		roles = []string{}
	}
	perms := result.Permissions
	if perms == nil {
		perms = []string{}
	}
	return authPayload{
		User:        userDTO(result.User),
		Roles:       roles,
		Permissions: perms,
		Tokens:      result.Tokens,
	}
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		StudentID: req.StudentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, authDTO(result), "Registration successful")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, authDTO(result), "Login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	accessToken, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"accessToken": accessToken}, "Token refreshed")
}

func (h HandlerSet) Profile(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Authentication("Authentication required"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), current.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	perms := make([]string, 0, len(current.Permissions))
	for name := range current.Permissions {
		perms = append(perms, name)
	}

	response.OK(c, gin.H{
		"user":        userDTO(user),
		"roles":       current.Roles,
		"permissions": perms,
	}, "Profile retrieved")
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"avatarUrl"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Authentication("Authentication required"))
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), current.ID, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, userDTO(user), "Profile updated")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Authentication("Authentication required"))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), current.ID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "Password changed")
}
