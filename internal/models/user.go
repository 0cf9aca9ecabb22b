package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	StudentID    *string
	AvatarURL    *string
	IsActive     bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	ID          int64
	Name        string
	Description string
	Permissions []Permission
}

type Permission struct {
	ID          int64
	Name        string
	Description string
}

// AuthUser is the identity attached to a request after authentication.
// Controllers read it, never mutate it.
type AuthUser struct {
	ID          int64
	Username    string
	Email       string
	FirstName   string
	LastName    string
	StudentID   *string
	Roles       []string
	Permissions map[string]struct{}
}

func (u AuthUser) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role == name {
			return true
		}
	}
	return false
}

func (u AuthUser) HasPermission(name string) bool {
	_, ok := u.Permissions[name]
	return ok
}
