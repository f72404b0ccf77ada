package users_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/school-management-toolkit/registrar/internal/entity"
	"github.com/school-management-toolkit/registrar/internal/repository/users"
	"github.com/school-management-toolkit/registrar/internal/usecase/sqldb"
	"github.com/school-management-toolkit/registrar/pkg/db"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

func setupRepo(t *testing.T) *users.Repo {
	t.Helper()

	// a single connection keeps the in-memory database alive across calls
	database, err := db.New(":memory:", sql.Open, db.MaxPoolSize(1), db.EnableForeignKeys(true))
	require.NoError(t, err)

	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.Migrate())

	return users.New(database, logger.New("error"))
}

func newUser(username string) *entity.User {
	return &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: "$2a$12$notarealhashnotarealhashnotarealhash",
		Role:         entity.RoleTeacher,
	}
}

func TestGetByUsernameNotFound(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)

	user, err := repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestInsertAndGet(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	want := newUser("alice")

	id, err := repo.Insert(context.Background(), want)
	require.NoError(t, err)
	require.Equal(t, want.ID, id)

	got, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Username, got.Username)
	require.Equal(t, want.PasswordHash, got.PasswordHash)
	require.Equal(t, entity.RoleTeacher, got.Role)
	require.Nil(t, got.LastLogin)
	require.False(t, got.CreatedAt.IsZero())
}

func TestInsertDuplicateUsername(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)

	_, err := repo.Insert(context.Background(), newUser("bob"))
	require.NoError(t, err)

	_, err = repo.Insert(context.Background(), newUser("bob"))
	require.Error(t, err)
	require.IsType(t, sqldb.NotUniqueError{}, err)
}

func TestUpdatePasswordHash(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)

	_, err := repo.Insert(context.Background(), newUser("carol"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(context.Background(), "carol", "newhash"))

	got, err := repo.GetByUsername(context.Background(), "carol")
	require.NoError(t, err)
	require.Equal(t, "newhash", got.PasswordHash)
}

func TestUpdateLastLogin(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)

	_, err := repo.Insert(context.Background(), newUser("dave"))
	require.NoError(t, err)

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(context.Background(), "dave", at))

	got, err := repo.GetByUsername(context.Background(), "dave")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	require.Equal(t, at.Unix(), got.LastLogin.Unix())
}

func TestCount(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)

	_, err = repo.Insert(context.Background(), newUser("erin"))
	require.NoError(t, err)

	count, err = repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
