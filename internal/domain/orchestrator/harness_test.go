package orchestrator_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/orchestrator"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/retry"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
)

const owner = "user_1"

// fakeGenerator answers with the requested model name unless respond overrides it.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	respond func(ctx context.Context, req llm.Request) (llm.Response, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	f.calls++
	respond := f.respond
	f.mu.Unlock()
	if respond != nil {
		return respond(ctx, req)
	}
	return llm.Response{Content: "reply from " + req.Model}, nil
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []realtime.Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, env realtime.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes = append(p.envelopes, env)
}

func (p *recordingPublisher) CloseRoom(context.Context, string) {}

func (p *recordingPublisher) ofType(t realtime.EnvelopeType) []realtime.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []realtime.Envelope
	for _, env := range p.envelopes {
		if env.Type == t {
			out = append(out, env)
		}
	}
	return out
}

type harness struct {
	t         *testing.T
	store     *memrepo.Store
	agents    agent.Service
	roles     role.Service
	rooms     room.Service
	messages  message.Service
	manager   session.Manager
	generator *fakeGenerator
	publisher *recordingPublisher
	sup       *orchestrator.Supervisor
}

func newHarness(t *testing.T, gen *fakeGenerator) *harness {
	t.Helper()
	log := zerolog.Nop()
	store := memrepo.NewStore()
	locker := lock.NewLocal()
	pub := &recordingPublisher{}

	agents := agent.NewService(store.Agents, store.Roles, "", log)
	roles := role.NewService(store.Roles, agents, store.Rooms, log)
	messages := message.NewService(message.Dependencies{
		Repo:      store.Messages,
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Locker:    locker,
		Publisher: pub,
	}, log)

	sup := orchestrator.NewSupervisor(orchestrator.Dependencies{
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Roles:     store.Roles,
		Agents:    agents,
		Messages:  messages,
		Generator: gen,
		Locker:    locker,
		Publisher: pub,
	}, orchestrator.Config{
		ContextMessages: 20,
		MaxTokens:       256,
		Retry:           retry.NoRetryPolicy(),
	}, log)

	rooms := room.NewService(room.Dependencies{
		Repo:      store.Rooms,
		Roles:     roles,
		Locker:    locker,
		Halter:    sup,
		Publisher: pub,
		Purgers:   []room.Purger{store.Messages, store.Sessions},
	}, log)
	manager := session.NewManager(session.ManagerDependencies{
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Roles:     roles,
		Locker:    locker,
		Runner:    sup,
		Publisher: pub,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sup.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &harness{
		t: t, store: store, agents: agents, roles: roles, rooms: rooms,
		messages: messages, manager: manager, generator: gen, publisher: pub, sup: sup,
	}
}

// room creates one agent and role per name, each agent using the role name as its model.
func (h *harness) room(mode room.Mode, maxRounds int, names ...string) *room.Room {
	h.t.Helper()
	ctx := context.Background()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ag, err := h.agents.Create(ctx, owner, agent.CreateParams{Name: name + " agent", Provider: llm.ProviderMock, ModelName: name})
		require.NoError(h.t, err)
		rl, err := h.roles.Create(ctx, owner, role.CreateParams{AgentID: ag.ID, Name: name})
		require.NoError(h.t, err)
		ids = append(ids, rl.ID)
	}
	rm, err := h.rooms.Create(ctx, owner, room.CreateParams{
		Name:      "arena",
		Topic:     "tabs versus spaces",
		Mode:      mode,
		MaxRounds: &maxRounds,
		RoleIDs:   ids,
	})
	require.NoError(h.t, err)
	return rm
}

func (h *harness) waitStatus(roomID string, status room.Status) *room.Room {
	h.t.Helper()
	var last *room.Room
	require.Eventually(h.t, func() bool {
		rm, err := h.store.Rooms.Get(context.Background(), roomID)
		if err != nil {
			return false
		}
		last = rm
		return rm.Status == status
	}, 5*time.Second, 5*time.Millisecond, "room never reached %s", status)
	return last
}

func (h *harness) waitIdle(roomID string) {
	h.t.Helper()
	require.Eventually(h.t, func() bool { return !h.sup.Active(roomID) }, 5*time.Second, 5*time.Millisecond)
}

func (h *harness) transcript(sessionID string) []*message.Message {
	h.t.Helper()
	msgs, err := h.store.Messages.List(context.Background(), sessionID, 0, 0)
	require.NoError(h.t, err)
	return msgs
}

func speakers(msgs []*message.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.SenderName)
	}
	return out
}

func modelOf(req llm.Request) string {
	return strings.TrimSpace(req.Model)
}
