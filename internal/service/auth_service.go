package service

import (
	"context"
	"strings"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/config"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/security"
)

// UserStore is the subset of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByStudentID(ctx context.Context, studentID string) (models.User, error)
	Update(ctx context.Context, id int64, patch repository.UserPatch) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash []byte) error
	SetRoles(ctx context.Context, userID int64, roleIDs []int64) error
}

// RoleFinder looks up a role by its unique name.
type RoleFinder interface {
	FindByName(ctx context.Context, name string) (models.Role, error)
}

// DefaultRole is assigned to self-registered accounts when it exists.
const DefaultRole = "student"

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	StudentID string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResult struct {
	User        models.User
	Roles       []string
	Permissions []string
	Tokens      TokenPair
}

type AuthService struct {
	users    UserStore
	roles    RoleFinder
	resolver *AccessResolver
	cfg      config.SecurityConfig
}

func NewAuthService(users UserStore, roles RoleFinder, resolver *AccessResolver, cfg config.SecurityConfig) *AuthService {
	return &AuthService{users: users, roles: roles, resolver: resolver, cfg: cfg}
}

// Register creates an account and signs it in. Uniqueness of username,
// email and student id is checked against non-deleted users only.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, apperr.Conflict("Email is already registered")
	} else if !apperr.Is(err, apperr.CodeNotFound) {
		return AuthResult{}, err
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return AuthResult{}, apperr.Conflict("Username is already taken")
	} else if !apperr.Is(err, apperr.CodeNotFound) {
		return AuthResult{}, err
	}
	if input.StudentID != "" {
		if _, err := s.users.FindByStudentID(ctx, input.StudentID); err == nil {
			return AuthResult{}, apperr.Conflict("Student ID is already registered")
		} else if !apperr.Is(err, apperr.CodeNotFound) {
			return AuthResult{}, err
		}
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}
	if input.StudentID != "" {
		user.StudentID = &input.StudentID
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	if role, err := s.roles.FindByName(ctx, DefaultRole); err == nil {
		if err := s.users.SetRoles(ctx, user.ID, []int64{role.ID}); err != nil {
			return AuthResult{}, err
		}
	} else if !apperr.Is(err, apperr.CodeNotFound) {
		return AuthResult{}, err
	}

	return s.issue(ctx, user)
}

// Login authenticates by email and password. Credential failures and
// unknown accounts produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return AuthResult{}, apperr.Authentication("Invalid email or password")
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, apperr.Authentication("Invalid email or password")
	}
	if !user.IsActive {
		return AuthResult{}, apperr.Authorization("Account is deactivated")
	}

	return s.issue(ctx, user)
}

// Refresh validates a refresh token and mints a new access token from
// the user's current state. Roles revoked since login disappear from
// the new token; deactivated accounts are refused.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := security.ParseRefreshToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", apperr.Authentication("Invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return "", apperr.Authentication("Invalid or expired token")
		}
		return "", err
	}
	if !user.IsActive {
		return "", apperr.Authentication("Invalid or expired token")
	}

	access, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return "", err
	}

	return security.SignAccessToken(
		s.cfg.AccessSecret,
		user.ID, user.Username, user.Email, studentID(user),
		access.Roles, s.cfg.AccessTTL,
	)
}

type ProfileInput struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (models.User, error) {
	return s.users.Update(ctx, userID, repository.UserPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		AvatarURL: input.AvatarURL,
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("Current password is incorrect")
	}

	hash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) issue(ctx context.Context, user models.User) (AuthResult, error) {
	access, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	accessToken, err := security.SignAccessToken(
		s.cfg.AccessSecret,
		user.ID, user.Username, user.Email, studentID(user),
		access.Roles, s.cfg.AccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}
	refreshToken, err := security.SignRefreshToken(s.cfg.RefreshSecret, user.ID, s.cfg.RefreshTTL)
	if err != nil {
		return AuthResult{}, err
	}

	perms := make([]string, 0, len(access.Permissions))
	for name := range access.Permissions {
		perms = append(perms, name)
	}

	return AuthResult{
		User:        user,
		Roles:       access.Roles,
		Permissions: perms,
		Tokens:      TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

func studentID(user models.User) string {
	if user.StudentID == nil {
		return ""
	}
	return *user.StudentID
}
