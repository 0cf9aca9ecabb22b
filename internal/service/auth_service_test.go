package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/config"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/security"
)

type memUserStore struct {
	nextID    int64
	users     map[int64]models.User
	roleSets  map[int64][]int64
	passwords map[int64][]byte
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:     make(map[int64]models.User),
		roleSets:  make(map[int64][]int64),
		passwords: make(map[int64][]byte),
	}
}

func (s *memUserStore) add(user models.User) models.User {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return user
}

func (s *memUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	return s.add(user), nil
}

func (s *memUserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("User not found")
	}
	return user, nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, apperr.NotFound("User not found")
}

func (s *memUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, apperr.NotFound("User not found")
}

func (s *memUserStore) FindByStudentID(ctx context.Context, studentID string) (models.User, error) {
	for _, user := range s.users {
		if user.StudentID != nil && *user.StudentID == studentID {
			return user, nil
		}
	}
	return models.User{}, apperr.NotFound("User not found")
}

func (s *memUserStore) Update(ctx context.Context, id int64, patch repository.UserPatch) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("User not found")
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = patch.AvatarURL
	}
	s.users[id] = user
	return user, nil
}

func (s *memUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash []byte) error {
	user, ok := s.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.PasswordHash = passwordHash
	s.users[id] = user
	s.passwords[id] = passwordHash
	return nil
}

func (s *memUserStore) SetRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	s.roleSets[userID] = roleIDs
	return nil
}

type fakeRoleFinder struct {
	roles map[string]models.Role
}

func (f *fakeRoleFinder) FindByName(ctx context.Context, name string) (models.Role, error) {
	role, ok := f.roles[name]
	if !ok {
		return models.Role{}, apperr.NotFound("Role not found")
	}
	return role, nil
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    168 * time.Hour,
	}
}

func newAuthFixture(roleNames *fakeRoleNames, permSource *fakePermissions) (*AuthService, *memUserStore) {
	store := newMemUserStore()
	finder := &fakeRoleFinder{roles: map[string]models.Role{
		DefaultRole: {ID: 3, Name: DefaultRole},
	}}
	resolver := NewAccessResolver(roleNames, permSource)
	return NewAuthService(store, finder, resolver, testSecurityConfig()), store
}

func seedUser(t *testing.T, store *memUserStore, email, password string, active bool) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return store.add(models.User{
		Username:     "reader",
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Sok",
		LastName:     "Dara",
		IsActive:     active,
	})
}

func TestRegisterIssuesTokensAndDefaultRole(t *testing.T) {
	svc, store := newAuthFixture(
		&fakeRoleNames{names: []string{DefaultRole}},
		&fakePermissions{granted: perms("view_books")},
	)

	result, err := svc.Register(context.Background(), RegisterInput{
		Username:  "newreader",
		Email:     "Reader@Example.COM",
		Password:  "s3cret-pass",
		FirstName: "Sok",
		LastName:  "Dara",
		StudentID: "ST-1001",
	})
	require.NoError(t, err)

	assert.Equal(t, "reader@example.com", result.User.Email)
	assert.True(t, result.User.IsActive)
	assert.Equal(t, []int64{3}, store.roleSets[result.User.ID])
	assert.Contains(t, result.Permissions, "view_books")
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	claims, err := security.ParseAccessToken(result.Tokens.AccessToken, testSecurityConfig().AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "ST-1001", claims.StudentID)
	assert.Equal(t, []string{DefaultRole}, claims.Roles)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, store := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})
	seedUser(t, store, "taken@example.com", "whatever-1", true)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:  "other",
		Email:     "taken@example.com",
		Password:  "s3cret-pass",
		FirstName: "A",
		LastName:  "B",
	})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.EqualError(t, err, "Email is already registered")
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, store := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})
	seedUser(t, store, "first@example.com", "whatever-1", true)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:  "reader",
		Email:     "second@example.com",
		Password:  "s3cret-pass",
		FirstName: "A",
		LastName:  "B",
	})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.EqualError(t, err, "Username is already taken")
}

func TestLoginSucceeds(t *testing.T) {
	svc, store := newAuthFixture(
		&fakeRoleNames{names: []string{"librarian"}},
		&fakePermissions{granted: perms("create_books")},
	)
	seedUser(t, store, "lib@example.com", "correct-horse", true)

	result, err := svc.Login(context.Background(), "LIB@example.com", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, []string{"librarian"}, result.Roles)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestLoginHidesWhichCredentialFailed(t *testing.T) {
	svc, store := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})
	seedUser(t, store, "lib@example.com", "correct-horse", true)

	_, unknownErr := svc.Login(context.Background(), "ghost@example.com", "correct-horse")
	_, wrongErr := svc.Login(context.Background(), "lib@example.com", "battery-staple")

	assert.True(t, apperr.Is(unknownErr, apperr.CodeAuthentication))
	assert.True(t, apperr.Is(wrongErr, apperr.CodeAuthentication))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, store := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})
	seedUser(t, store, "gone@example.com", "correct-horse", false)

	_, err := svc.Login(context.Background(), "gone@example.com", "correct-horse")
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))
	assert.EqualError(t, err, "Account is deactivated")
}

func TestRefreshReflectsCurrentRoles(t *testing.T) {
	roleNames := &fakeRoleNames{names: []string{"librarian"}}
	svc, store := newAuthFixture(roleNames, &fakePermissions{})
	user := seedUser(t, store, "lib@example.com", "correct-horse", true)

	refresh, err := security.SignRefreshToken(testSecurityConfig().RefreshSecret, user.ID, time.Hour)
	require.NoError(t, err)

	// Revoke the role after the refresh token was issued.
	roleNames.names = nil

	accessToken, err := svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)

	claims, err := security.ParseAccessToken(accessToken, testSecurityConfig().AccessSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	svc, _ := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.True(t, apperr.Is(err, apperr.CodeAuthentication))
	assert.EqualError(t, err, "Invalid or expired token")
}

// A deactivated account refreshes exactly like an unknown one: the
// caller learns nothing beyond "this token no longer works".
func TestRefreshRejectsDeactivatedAccount(t *testing.T) {
	svc, store := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})
	user := seedUser(t, store, "gone@example.com", "correct-horse", false)

	refresh, err := security.SignRefreshToken(testSecurityConfig().RefreshSecret, user.ID, time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), refresh)
	assert.True(t, apperr.Is(err, apperr.CodeAuthentication))
	assert.EqualError(t, err, "Invalid or expired token")
}

func TestRefreshRejectsUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})

	refresh, err := security.SignRefreshToken(testSecurityConfig().RefreshSecret, 999, time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), refresh)
	assert.True(t, apperr.Is(err, apperr.CodeAuthentication))
}

func TestChangePassword(t *testing.T) {
	svc, store := newAuthFixture(&fakeRoleNames{}, &fakePermissions{})
	user := seedUser(t, store, "lib@example.com", "old-password-1", true)

	err := svc.ChangePassword(context.Background(), user.ID, "bad-guess", "new-password-1")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.EqualError(t, err, "Current password is incorrect")

	err = svc.ChangePassword(context.Background(), user.ID, "old-password-1", "new-password-1")
	require.NoError(t, err)

	ok, err := security.VerifyPassword("new-password-1", store.passwords[user.ID])
	require.NoError(t, err)
	assert.True(t, ok)
}
