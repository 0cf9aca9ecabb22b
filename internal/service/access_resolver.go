package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"elibrary/api/internal/models"
)

// RoleNameSource lists the names of the roles assigned to a user.
type RoleNameSource interface {
	ListNamesByUser(ctx context.Context, userID int64) ([]string, error)
}

// PermissionSource exposes the two ways a user can hold a permission:
// granted through a role, or attached to the user directly.
type PermissionSource interface {
	ListByUserRoles(ctx context.Context, userID int64) ([]models.Permission, error)
	ListDirectByUser(ctx context.Context, userID int64) ([]models.Permission, error)
}

// Access is the effective identity of a user at resolution time.
type Access struct {
	Roles       []string
	Permissions map[string]struct{}
}

func (a Access) HasRole(name string) bool {
	for _, role := range a.Roles {
		if role == name {
			return true
		}
	}
	return false
}

func (a Access) HasPermission(name string) bool {
	_, ok := a.Permissions[name]
	return ok
}

// AccessResolver computes the union of role-granted and direct
// permissions for a user. Duplicates collapse in the set.
type AccessResolver struct {
	roles       RoleNameSource
	permissions PermissionSource
}

func NewAccessResolver(roles RoleNameSource, permissions PermissionSource) *AccessResolver {
	return &AccessResolver{roles: roles, permissions: permissions}
}

func (r *AccessResolver) Resolve(ctx context.Context, userID int64) (Access, error) {
	var (
		roleNames []string
		granted   []models.Permission
		direct    []models.Permission
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		roleNames, err = r.roles.ListNamesByUser(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		granted, err = r.permissions.ListByUserRoles(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		direct, err = r.permissions.ListDirectByUser(groupCtx, userID)
		return err
	})
	if err := group.Wait(); err != nil {
		return Access{}, err
	}

	access := Access{
		Roles:       roleNames,
		Permissions: make(map[string]struct{}, len(granted)+len(direct)),
	}
	for _, perm := range granted {
		access.Permissions[perm.Name] = struct{}{}
	}
	for _, perm := range direct {
		access.Permissions[perm.Name] = struct{}{}
	}
	return access, nil
}

func (r *AccessResolver) HasPermission(ctx context.Context, userID int64, name string) (bool, error) {
	access, err := r.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return access.HasPermission(name), nil
}
