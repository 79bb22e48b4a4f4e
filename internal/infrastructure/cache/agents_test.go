package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/infrastructure/cache"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
)

type countingRepo struct {
	agent.Repository
	gets int
}

func (r *countingRepo) Get(ctx context.Context, id string) (*agent.Agent, error) {
	r.gets++
	return r.Repository.Get(ctx, id)
}

func TestAgentRepositoryCachesGets(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepo{Repository: memrepo.NewAgentRepository()}
	repo, err := cache.NewAgentRepository(inner, 8)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, &agent.Agent{ID: "agt_1", Name: "first"}))

	for i := 0; i < 3; i++ {
		a, err := repo.Get(ctx, "agt_1")
		require.NoError(t, err)
		assert.Equal(t, "first", a.Name)
		a.Name = "mutated by caller"
	}
	assert.Equal(t, 1, inner.gets)

	require.NoError(t, repo.Update(ctx, &agent.Agent{ID: "agt_1", Name: "second"}))
	a, err := repo.Get(ctx, "agt_1")
	require.NoError(t, err)
	assert.Equal(t, "second", a.Name)
	assert.Equal(t, 2, inner.gets)

	require.NoError(t, repo.Delete(ctx, "agt_1"))
	_, err = repo.Get(ctx, "agt_1")
	assert.Error(t, err)
}
