package user_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homecase-registration/internal/domain"

	. "github.com/mkrupp/homecase-registration/internal/repo/user"
)

func newTestRepo(t *testing.T) (*SQLiteUserRepository, SQLiteUserRepositoryConfig) {
	t.Helper()

	cfg := SQLiteUserRepositoryConfig{
		DatabasePath: filepath.Join(t.TempDir(), "users.db"),
		BusyTimeout:  1000,
	}

	repo, err := NewSQLiteUserRepository(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = repo.Close() })

	return repo, cfg
}

func TestSQLiteUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, _ := newTestRepo(t)

	want := domain.User{Username: "alice", Email: "alice@example.com", Password: "secret"}
	require.NoError(t, repo.CreateUser(ctx, want))

	got, ok, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, *got)
}

func TestSQLiteUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "bob", Email: "b1@example.com", Password: "p1"}))

	err := repo.CreateUser(ctx, domain.User{Username: "bob", Email: "b2@example.com", Password: "p2"})
	require.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	got, _, err := repo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, "b1@example.com", got.Email)
}

func TestSQLiteUserRepository_UserNotFound(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepo(t)

	got, ok, err := repo.GetUserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestSQLiteUserRepository_ListUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, _ := newTestRepo(t)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "zed", Email: "zed@example.com", Password: "z"}))
	require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "amy", Email: "amy@example.com", Password: "a"}))

	users, err = repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "amy", users[0].Username)
	require.Equal(t, "zed", users[1].Username)
}

func TestSQLiteUserRepository_PersistsAcrossConnections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, cfg := newTestRepo(t)

	require.NoError(t, repo.CreateUser(ctx, domain.User{Username: "carol", Email: "carol@example.com", Password: "c"}))
	require.NoError(t, repo.Close())

	newRepo := SQLiteUserRepositoryFactory(cfg)

	reopened, err := newRepo()
	require.NoError(t, err)
	defer reopened.Close()

	_, ok, err := reopened.GetUserByUsername(ctx, "carol")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewSQLiteUserRepository_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewSQLiteUserRepository(SQLiteUserRepositoryConfig{
		DatabasePath: filepath.Join(t.TempDir(), "missing", "dir", "users.db"),
	})
	require.Error(t, err)
}
