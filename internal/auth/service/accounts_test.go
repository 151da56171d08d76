package service

import (
	"context"
	"path/filepath"
	"testing"

	"interior-planner/internal/auth/models"
	"interior-planner/internal/auth/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAccounts(t *testing.T) (*Accounts, *repository.Repository) {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))
	return NewAccounts(repo).WithCost(bcrypt.MinCost), repo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccounts(t)

	u, err := a.Register(ctx, "  Ann ", "Ann@Example.com ", "secret1", models.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NotEmpty(t, u.CreatedAt)

	got, err := a.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = a.Login(ctx, "ann@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccounts(t)

	_, err := a.Register(ctx, "Ann", "ann@example.com", "123", models.RoleUser)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = a.Register(ctx, "Ann", "ann@example.com", "secret1", models.RoleUser)
	require.NoError(t, err)

	_, err = a.Register(ctx, "Other", "ANN@example.com", "secret2", models.RoleUser)
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAccounts(t)
	u, err := a.Register(ctx, "Ann", "ann@example.com", "secret1", models.RoleUser)
	require.NoError(t, err)

	assert.ErrorIs(t, a.ChangePassword(ctx, u.ID, "bad", "secret2"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.ChangePassword(ctx, u.ID, "secret1", "123"), ErrWeakPassword)
	assert.ErrorIs(t, a.ChangePassword(ctx, "ghost", "secret1", "secret2"), repository.ErrNotFound)

	require.NoError(t, a.ChangePassword(ctx, u.ID, "secret1", "secret2"))
	_, err = a.Login(ctx, "ann@example.com", "secret2")
	assert.NoError(t, err)
	_, err = a.Login(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	a, repo := newTestAccounts(t)

	admin, err := a.EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, err := a.EnsureAdmin(ctx, "Root", "root@example.com", "ignored")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	u, err := a.Register(ctx, "Bob", "bob@example.com", "bobpass", models.RoleUser)
	require.NoError(t, err)
	promoted, err := a.EnsureAdmin(ctx, "Bob", "bob@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, promoted.ID)

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, stored.Role)
}
