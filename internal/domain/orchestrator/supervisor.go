// Package orchestrator drives the autonomous conversation of running rooms.
package orchestrator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/retry"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
)

// Turn outcomes reported to the Observer.
const (
	OutcomeSpoken    = "spoken"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
	OutcomeRoomError = "room_error"
)

// Observer receives orchestration events, typically for metrics.
type Observer interface {
	RunnerStarted(roomID string)
	RunnerStopped(roomID string)
	TurnFinished(mode room.Mode, outcome string, attempts int, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) RunnerStarted(string)                               {}
func (nopObserver) RunnerStopped(string)                               {}
func (nopObserver) TurnFinished(room.Mode, string, int, time.Duration) {}

// Config tunes the generation loop.
type Config struct {
	TurnInterval    time.Duration
	ContextMessages int
	MaxTokens       int
	Retry           retry.Policy
	// RecoverOnStart moves rooms left running by a previous process to stopped.
	RecoverOnStart bool
}

// Dependencies groups the collaborators of the Supervisor.
type Dependencies struct {
	Rooms     room.Repository
	Sessions  session.Repository
	Roles     role.Repository
	Agents    agent.Service
	Messages  message.Service
	Generator llm.Generator
	Locker    room.Locker
	Publisher realtime.Publisher
	Observer  Observer
}

type runner struct {
	roomID string
	cancel context.CancelFunc
	done   chan struct{}
	halted bool
}

// Supervisor owns one generation loop per running room. It implements session.Runner.
type Supervisor struct {
	deps   Dependencies
	cfg    Config
	tracer trace.Tracer
	log    zerolog.Logger

	randMu sync.Mutex
	rng    *rand.Rand

	mu      sync.Mutex
	runners map[string]*runner
	closed  bool
	wg      sync.WaitGroup
}

var _ session.Runner = (*Supervisor)(nil)

// NewSupervisor creates a Supervisor. Loops only start once rooms are launched.
func NewSupervisor(deps Dependencies, cfg Config, log zerolog.Logger) *Supervisor {
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	if cfg.ContextMessages <= 0 {
		cfg.ContextMessages = 20
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = llm.IsRetryable
	}
	return &Supervisor{
		deps:    deps,
		cfg:     cfg,
		tracer:  otel.Tracer("arena/orchestrator"),
		log:     log.With().Str("component", "orchestrator").Logger(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		runners: make(map[string]*runner),
	}
}

// Launch starts the loop of roomID, superseding any loop already registered for it.
func (s *Supervisor) Launch(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Warn().Str("room_id", roomID).Msg("launch ignored during shutdown")
		return
	}

	prev := s.runners[roomID]
	if prev != nil {
		prev.halted = true
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{roomID: roomID, cancel: cancel, done: make(chan struct{})}
	s.runners[roomID] = r

	s.wg.Add(1)
	go s.loop(ctx, r, prev)
}

// Halt cancels the loop of roomID without waiting for it. A generation still in
// flight is discarded when it tries to commit.
func (s *Supervisor) Halt(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.runners[roomID]; r != nil && !r.halted {
		r.halted = true
		r.cancel()
	}
}

// Active reports whether roomID has a live loop.
func (s *Supervisor) Active(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.runners[roomID]
	return r != nil && !r.halted
}

// Run recovers orphaned rooms, then blocks until ctx is done and stops every loop.
func (s *Supervisor) Run(ctx context.Context) error {
	if s.cfg.RecoverOnStart {
		s.recover(ctx)
	}

	<-ctx.Done()

	s.mu.Lock()
	s.closed = true
	interrupted := make([]string, 0, len(s.runners))
	for roomID, r := range s.runners {
		if !r.halted {
			interrupted = append(interrupted, roomID)
			r.halted = true
			r.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, roomID := range interrupted {
		s.markStopped(shutdownCtx, roomID, "")
	}

	s.log.Info().Int("interrupted_rooms", len(interrupted)).Msg("orchestrator stopped")
	return nil
}

func (s *Supervisor) recover(ctx context.Context) {
	rooms, err := s.deps.Rooms.ListByStatus(ctx, room.StatusRunning)
	if err != nil {
		s.log.Error().Err(err).Msg("list running rooms for recovery")
		return
	}
	for _, rm := range rooms {
		s.markStopped(ctx, rm.ID, "")
	}
	if len(rooms) > 0 {
		s.log.Info().Int("rooms", len(rooms)).Msg("rooms left running by a previous process were stopped")
	}
}

func (s *Supervisor) loop(ctx context.Context, r *runner, prev *runner) {
	defer s.wg.Done()
	defer close(r.done)
	defer s.forget(r)

	// one generation in flight per room: let the superseded loop exit first
	if prev != nil {
		<-prev.done
	}
	if ctx.Err() != nil {
		return
	}

	s.deps.Observer.RunnerStarted(r.roomID)
	defer s.deps.Observer.RunnerStopped(r.roomID)
	s.log.Info().Str("room_id", r.roomID).Msg("room loop started")

	for {
		if !s.turn(ctx, r) {
			break
		}
		if !sleep(ctx, s.cfg.TurnInterval) {
			break
		}
	}

	s.log.Info().Str("room_id", r.roomID).Msg("room loop exited")
}

func (s *Supervisor) isCurrent(r *runner) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runners[r.roomID] == r && !r.halted
}

// retire marks r halted so no further commits from it are accepted.
func (s *Supervisor) retire(r *runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.halted = true
	r.cancel()
}

func (s *Supervisor) forget(r *runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runners[r.roomID] == r {
		delete(s.runners, r.roomID)
	}
}

func (s *Supervisor) random() float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Float64()
}

func (s *Supervisor) markStopped(ctx context.Context, roomID, reason string) {
	unlock, err := s.deps.Locker.Lock(ctx, room.LockKey(roomID))
	if err != nil {
		s.log.Error().Err(err).Str("room_id", roomID).Msg("lock room to stop it")
		return
	}
	defer unlock()

	rm, err := s.deps.Rooms.Get(ctx, roomID)
	if err != nil || rm.Status != room.StatusRunning {
		return
	}
	if s.Active(roomID) {
		return
	}
	rm.Status = room.StatusStopped
	if reason != "" {
		rm.LastError = reason
	}
	rm.UpdatedAt = time.Now().UTC()
	if err := s.deps.Rooms.Update(ctx, rm); err != nil {
		s.log.Error().Err(err).Str("room_id", roomID).Msg("mark room stopped")
		return
	}
	s.deps.Publisher.Publish(ctx, roomID, session.NewStatusEnvelope(rm))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
