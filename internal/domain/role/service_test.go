package role_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

const owner = "user_1"

type fixture struct {
	store  *memrepo.Store
	agents agent.Service
	roles  role.Service
}

func newFixture() *fixture {
	store := memrepo.NewStore()
	log := zerolog.Nop()
	agents := agent.NewService(store.Agents, store.Roles, "", log)
	return &fixture{store: store, agents: agents, roles: role.NewService(store.Roles, agents, store.Rooms, log)}
}

func (f *fixture) agent(t *testing.T, ownerID string) *agent.Agent {
	t.Helper()
	a, err := f.agents.Create(context.Background(), ownerID, agent.CreateParams{Name: "gpt", Provider: llm.ProviderMock, ModelName: "m"})
	require.NoError(t, err)
	return a
}

func TestCreateRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.agent(t, owner)

	r, err := f.roles.Create(ctx, owner, role.CreateParams{AgentID: a.ID, Name: " Socrates ", Profession: "philosopher"})
	require.NoError(t, err)
	assert.Equal(t, "Socrates", r.Name)
	assert.Equal(t, role.DefaultAggressiveness, r.Aggressiveness)

	other := f.agent(t, "someone_else")
	_, err = f.roles.Create(ctx, owner, role.CreateParams{AgentID: other.ID, Name: "Thief"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	_, err = f.roles.Create(ctx, owner, role.CreateParams{AgentID: "agent_missing", Name: "Ghost"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	fierce := 1.5
	_, err = f.roles.Create(ctx, owner, role.CreateParams{AgentID: a.ID, Name: "Fierce", Aggressiveness: &fierce})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestUpdateRoleSwitchesAgent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, b := f.agent(t, owner), f.agent(t, owner)

	r, err := f.roles.Create(ctx, owner, role.CreateParams{AgentID: a.ID, Name: "Socrates"})
	require.NoError(t, err)

	age := 70
	updated, err := f.roles.Update(ctx, owner, r.ID, role.UpdateParams{AgentID: &b.ID, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.AgentID)
	assert.Equal(t, 70, updated.Age)

	foreign := f.agent(t, "someone_else")
	_, err = f.roles.Update(ctx, owner, r.ID, role.UpdateParams{AgentID: &foreign.ID})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestPersonaPrompt(t *testing.T) {
	r := &role.Role{Name: "Socrates", Gender: "male", Age: 70, Profession: "philosopher"}
	assert.Equal(t, "Role Persona:\nName: Socrates\nGender: male\nAge: 70\nProfession: philosopher", r.PersonaPrompt())

	assert.Equal(t, "Be brief.\n\n"+r.PersonaPrompt(), role.ComposeSystemPrompt("  Be brief. ", r))
	assert.Equal(t, r.PersonaPrompt(), role.ComposeSystemPrompt("", r))
	assert.Equal(t, "Be brief.", role.ComposeSystemPrompt("Be brief.", nil))
}
