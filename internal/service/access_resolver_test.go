package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elibrary/api/internal/models"
)

type fakeRoleNames struct {
	names []string
	err   error
}

func (f *fakeRoleNames) ListNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	return f.names, f.err
}

type fakePermissions struct {
	granted   []models.Permission
	direct    []models.Permission
	grantErr  error
	directErr error
}

func (f *fakePermissions) ListByUserRoles(ctx context.Context, userID int64) ([]models.Permission, error) {
	return f.granted, f.grantErr
}

func (f *fakePermissions) ListDirectByUser(ctx context.Context, userID int64) ([]models.Permission, error) {
	return f.direct, f.directErr
}

func perms(names ...string) []models.Permission {
	out := make([]models.Permission, 0, len(names))
	for i, name := range names {
		out = append(out, models.Permission{ID: int64(i + 1), Name: name})
	}
	return out
}

func TestResolveUnionsGrantedAndDirect(t *testing.T) {
	resolver := NewAccessResolver(
		&fakeRoleNames{names: []string{"librarian"}},
		&fakePermissions{
			granted: perms("view_users", "create_users"),
			direct:  perms("delete_users"),
		},
	)

	access, err := resolver.Resolve(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"librarian"}, access.Roles)
	assert.Len(t, access.Permissions, 3)
	assert.True(t, access.HasPermission("view_users"))
	assert.True(t, access.HasPermission("create_users"))
	assert.True(t, access.HasPermission("delete_users"))
	assert.False(t, access.HasPermission("update_users"))
}

func TestResolveCollapsesDuplicates(t *testing.T) {
	resolver := NewAccessResolver(
		&fakeRoleNames{names: []string{"admin", "librarian"}},
		&fakePermissions{
			granted: perms("view_users", "view_users"),
			direct:  perms("view_users"),
		},
	)

	access, err := resolver.Resolve(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, access.Permissions, 1)
}

func TestResolveDirectPermissionsWithoutRoles(t *testing.T) {
	resolver := NewAccessResolver(
		&fakeRoleNames{names: nil},
		&fakePermissions{direct: perms("view_users")},
	)

	access, err := resolver.Resolve(context.Background(), 7)
	require.NoError(t, err)

	assert.Empty(t, access.Roles)
	assert.False(t, access.HasRole("student"))
	assert.True(t, access.HasPermission("view_users"))
}

func TestResolvePropagatesErrors(t *testing.T) {
	boom := errors.New("connection reset")

	resolver := NewAccessResolver(
		&fakeRoleNames{names: []string{"admin"}},
		&fakePermissions{grantErr: boom},
	)

	_, err := resolver.Resolve(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
}

func TestHasPermission(t *testing.T) {
	resolver := NewAccessResolver(
		&fakeRoleNames{},
		&fakePermissions{granted: perms("update_books")},
	)

	ok, err := resolver.HasPermission(context.Background(), 7, "update_books")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.HasPermission(context.Background(), 7, "delete_books")
	require.NoError(t, err)
	assert.False(t, ok)
}
