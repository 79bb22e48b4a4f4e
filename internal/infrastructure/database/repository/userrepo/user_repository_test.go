package userrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/database/databasetest"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/userrepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

func TestUsernamesAreUniqueIgnoringCase(t *testing.T) {
	repo := userrepo.NewUserGormRepository(databasetest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{ID: "user_1", Username: "Alice", PasswordHash: "h", CreatedAt: time.Now()}))

	err := repo.Create(ctx, &user.User{ID: "user_2", Username: "alice", PasswordHash: "h", CreatedAt: time.Now()})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict), "got %v", err)

	got, err := repo.GetByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "user_1", got.ID)
	assert.Equal(t, "Alice", got.Username)

	_, err = repo.Get(ctx, "user_2")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
