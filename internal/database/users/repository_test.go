package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/tourism/internal/apperr"
	"github.com/mrlokans/tourism/internal/database/dbtest"
	"github.com/mrlokans/tourism/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	conn, _ := dbtest.NewConn(t)
	return NewRepository(conn.Gorm())
}

func createUser(t *testing.T, repo *Repository, email string) *entities.User {
	t.Helper()
	user := &entities.User{Fullname: "Test User", Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))
	return user
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	user := createUser(t, repo, "test@example.com")
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byID.Email)

	byEmail, err := repo.GetByEmail("test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestRepository_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = repo.UpdateProfile(999, ProfileUpdate{Fullname: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRepository_UniqueEmail(t *testing.T) {
	repo := setupRepo(t)
	createUser(t, repo, "dup@example.com")

	err := repo.Create(&entities.User{Fullname: "Other", Email: "dup@example.com", PasswordHash: "hash"})
	assert.Error(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_EmailChecks(t *testing.T) {
	repo := setupRepo(t)
	alice := createUser(t, repo, "alice@example.com")
	bob := createUser(t, repo, "bob@example.com")

	exists, err := repo.EmailExists("alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists("carol@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	taken, err := repo.EmailTakenByOther("alice@example.com", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.EmailTakenByOther("alice@example.com", bob.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestRepository_Updates(t *testing.T) {
	repo := setupRepo(t)
	user := createUser(t, repo, "test@example.com")

	require.NoError(t, repo.UpdateProfile(user.ID, ProfileUpdate{
		Fullname: "Renamed",
		Email:    "renamed@example.com",
		Phone:    "555",
		Location: "Pune",
	}))
	require.NoError(t, repo.UpdatePasswordHash(user.ID, "newhash"))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Fullname)
	assert.Equal(t, "renamed@example.com", got.Email)
	assert.Equal(t, "555", got.Phone)
	assert.Equal(t, "Pune", got.Location)
	assert.Equal(t, "newhash", got.PasswordHash)
}
