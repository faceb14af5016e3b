package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskmanager/internal/domain"
)

func TestPasswordResetRepository_CreateAndGetValid(t *testing.T) {
	db := testDB(t)
	u := seedTestUser(t, db, "alice")
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()

	token, err := repo.Create(ctx, u.ID, 24*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.False(t, token.Used)

	got, err := repo.GetValid(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.ID, got.ID)
}

func TestPasswordResetRepository_ExpiredTokenNotFound(t *testing.T) {
	db := testDB(t)
	u := seedTestUser(t, db, "alice")
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()

	token, err := repo.Create(ctx, u.ID, -time.Minute)
	require.NoError(t, err)

	_, err = repo.GetValid(ctx, token.Token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPasswordResetRepository_ConsumeIsSingleUse(t *testing.T) {
	db := testDB(t)
	u := seedTestUser(t, db, "alice")
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()

	token, err := repo.Create(ctx, u.ID, 24*time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.Consume(ctx, token.ID, u.ID, "new-hash"))

	// Password actually changed.
	var user domain.User
	require.NoError(t, db.First(&user, u.ID).Error)
	assert.Equal(t, "new-hash", user.PasswordHash)

	// Second spend fails.
	err = repo.Consume(ctx, token.ID, u.ID, "other-hash")
	assert.ErrorIs(t, err, ErrResetTokenSpent)

	// And the token no longer resolves as valid.
	_, err = repo.GetValid(ctx, token.Token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPasswordResetRepository_DeleteDead(t *testing.T) {
	db := testDB(t)
	u := seedTestUser(t, db, "alice")
	repo := NewPasswordResetRepository(db)
	ctx := context.Background()

	live, err := repo.Create(ctx, u.ID, 24*time.Hour)
	require.NoError(t, err)
	_, err = repo.Create(ctx, u.ID, -time.Minute)
	require.NoError(t, err)
	spent, err := repo.Create(ctx, u.ID, 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Consume(ctx, spent.ID, u.ID, "h"))

	swept, err := repo.DeleteDead(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	_, err = repo.GetValid(ctx, live.Token)
	assert.NoError(t, err)
}
