package database

import (
	"context"
	"testing"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	user := &models.User{Name: "Test User", Email: "test@example.com"}

	// Create
	err := db.CreateUser(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	// Get
	found, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", found.Name)
	assert.Equal(t, "test@example.com", found.Email)

	// Get by email
	found, err = db.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	// Update
	found.Name = "Renamed"
	err = db.UpdateUser(ctx, found)
	require.NoError(t, err)

	found, _ = db.GetUser(ctx, user.ID)
	assert.Equal(t, "Renamed", found.Name)

	// Get all
	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	// Delete
	err = db.DeleteUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = db.GetUser(ctx, user.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	first := &models.User{Name: "First", Email: "same@example.com"}
	require.NoError(t, db.CreateUser(ctx, first))

	second := &models.User{Name: "Second", Email: "same@example.com"}
	err := db.CreateUser(ctx, second)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// Обновление на занятый email тоже конфликт
	third := &models.User{Name: "Third", Email: "other@example.com"}
	require.NoError(t, db.CreateUser(ctx, third))

	third.Email = "same@example.com"
	err = db.UpdateUser(ctx, third)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	_, err := db.GetUser(ctx, 42)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	err = db.UpdateUser(ctx, &models.User{ID: 42, Name: "Ghost", Email: "ghost@example.com"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	err = db.DeleteUser(ctx, 42)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
