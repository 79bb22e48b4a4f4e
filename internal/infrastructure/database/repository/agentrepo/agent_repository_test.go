package agentrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/infrastructure/database/databasetest"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/agentrepo"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/rolerepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

func TestAgentAndRoleRepositories(t *testing.T) {
	db := databasetest.New(t)
	agents := agentrepo.NewAgentGormRepository(db)
	roles := rolerepo.NewRoleGormRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	a := &agent.Agent{ID: "agent_1", OwnerID: "user_1", Name: "Judge", Provider: "mock", ModelName: "m", Temperature: 0.2, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, agents.Create(ctx, a))

	a.Name = "Chief Judge"
	require.NoError(t, agents.Update(ctx, a))
	got, err := agents.Get(ctx, "agent_1")
	require.NoError(t, err)
	assert.Equal(t, "Chief Judge", got.Name)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)

	for _, id := range []string{"role_1", "role_2"} {
		require.NoError(t, roles.Create(ctx, &role.Role{ID: id, OwnerID: "user_1", AgentID: "agent_1", Name: id, Aggressiveness: 0.5, CreatedAt: now, UpdatedAt: now}))
	}
	n, err := roles.CountByAgent(ctx, "agent_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	many, err := roles.GetMany(ctx, []string{"role_2", "role_1"})
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.Equal(t, "role_2", many[0].ID)

	_, err = roles.GetMany(ctx, []string{"role_1", "role_9"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	list, err := agents.List(ctx, "user_2")
	require.NoError(t, err)
	assert.Empty(t, list)
}
