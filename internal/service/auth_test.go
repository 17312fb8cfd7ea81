package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventhub-api/internal/domain"
)

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, domain.User{
		Username: " alice ",
		Email:    "  Alice@Example.COM ",
		Password: "secret1",
		Role:     domain.RoleUser,
		// Admin fields are dropped for regular users.
		Department: "Ops",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.Empty(t, user.Department)
	assert.Empty(t, user.AdminID)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register(context.Background(), domain.User{
		Username: "root",
		Email:    "root@example.com",
		Password: "secret1",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(user.AdminID, "ADM-"))
	assert.Len(t, user.AdminID, len("ADM-1234"))
	assert.Equal(t, domain.DefaultDepartment, user.Department)
	assert.Equal(t, []string{"view", "create", "update"}, user.Permissions)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Permissions, stored.Permissions)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob", domain.RoleUser)

	_, err := f.auth.Register(ctx, domain.User{Username: "bobby", Email: "BOB@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = f.auth.Register(ctx, domain.User{Username: "bob", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "carol", domain.RoleUser)

	user, err := f.auth.Login(ctx, "Carol@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)

	_, err = f.auth.Login(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = f.auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_EnsureDefaultAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.auth.EnsureDefaultAdmin(ctx, "admin@example.com", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.EnsureDefaultAdmin(ctx, "admin2@example.com", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := f.auth.Login(ctx, "admin@example.com", "changeme")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}
