package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/utils/functional"
	"github.com/janhq/arena-server/internal/utils/idgen"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// Manager owns room lifecycle transitions and the sessions they create.
type Manager interface {
	// Start begins a new session from idle or finished, or resumes the open session of a stopped room.
	Start(ctx context.Context, userID, roomID string) (*room.Room, error)
	// Stop pauses a running room. The session stays open.
	Stop(ctx context.Context, userID, roomID string) (*room.Room, error)
	// Restart closes the current session, if any, and starts a fresh one.
	Restart(ctx context.Context, userID, roomID string) (*room.Room, error)
	// Finish closes the current session and marks the room finished.
	Finish(ctx context.Context, userID, roomID string) (*room.Room, error)
	// Join adds a role to the room's participants while no session is open.
	Join(ctx context.Context, userID, roomID, roleID string) (*room.Room, error)
	ListSessions(ctx context.Context, userID, roomID string) ([]*Session, error)
}

// ManagerDependencies groups the collaborators of the Session Manager.
type ManagerDependencies struct {
	Rooms     room.Repository
	Sessions  Repository
	Roles     role.Service
	Locker    room.Locker
	Runner    Runner
	Publisher realtime.Publisher
}

type manager struct {
	deps ManagerDependencies
	now  func() time.Time
	log  zerolog.Logger
}

// NewManager wires the Session Manager.
func NewManager(deps ManagerDependencies, log zerolog.Logger) Manager {
	return &manager{
		deps: deps,
		now:  func() time.Time { return time.Now().UTC() },
		log:  log.With().Str("component", "session-manager").Logger(),
	}
}

func (m *manager) Start(ctx context.Context, userID, roomID string) (*room.Room, error) {
	return m.transition(ctx, userID, roomID, func(r *room.Room, tx *transitionLog) error {
		switch r.Status {
		case room.StatusRunning:
			return invalidState(ctx, r, "room is already running")
		case room.StatusStopped:
			if r.CurrentSessionID != nil {
				sess, err := m.deps.Sessions.Get(ctx, *r.CurrentSessionID)
				if err != nil {
					return err
				}
				if sess.IsOpen() {
					r.Status = room.StatusRunning
					r.LastError = ""
					m.log.Info().Str("room_id", r.ID).Str("session_id", sess.ID).Int("current_rounds", r.CurrentRounds).Msg("session resumed")
					return nil
				}
			}
		}
		return m.openSession(ctx, r, tx)
	})
}

func (m *manager) Stop(ctx context.Context, userID, roomID string) (*room.Room, error) {
	return m.transition(ctx, userID, roomID, func(r *room.Room, tx *transitionLog) error {
		if r.Status != room.StatusRunning {
			return invalidState(ctx, r, "only a running room can be stopped")
		}
		tx.halt = true
		r.Status = room.StatusStopped
		return nil
	})
}

func (m *manager) Restart(ctx context.Context, userID, roomID string) (*room.Room, error) {
	return m.transition(ctx, userID, roomID, func(r *room.Room, tx *transitionLog) error {
		if len(r.RoleIDs) == 0 {
			return noParticipants(ctx, r)
		}
		tx.halt = true
		if err := m.closeCurrent(ctx, r, tx); err != nil {
			return err
		}
		return m.openSession(ctx, r, tx)
	})
}

func (m *manager) Finish(ctx context.Context, userID, roomID string) (*room.Room, error) {
	return m.transition(ctx, userID, roomID, func(r *room.Room, tx *transitionLog) error {
		if r.Status == room.StatusFinished {
			return invalidState(ctx, r, "room is already finished")
		}
		tx.halt = true
		if err := m.closeCurrent(ctx, r, tx); err != nil {
			return err
		}
		r.Status = room.StatusFinished
		return nil
	})
}

func (m *manager) Join(ctx context.Context, userID, roomID, roleID string) (*room.Room, error) {
	unlock, err := m.deps.Locker.Lock(ctx, room.LockKey(roomID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock room")
	}
	defer unlock()

	r, err := m.loadOwned(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if r.HasOpenSession() {
		return nil, invalidState(ctx, r, "participants cannot join while a session is open; finish or restart the room first")
	}
	if functional.Contains(r.RoleIDs, roleID) {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"role is already a participant", nil, map[string]any{"room_id": roomID, "role_id": roleID})
	}
	if _, err := m.deps.Roles.GetForUser(ctx, userID, roleID); err != nil {
		return nil, err
	}

	r.RoleIDs = append(r.RoleIDs, roleID)
	r.UpdatedAt = m.now()
	if err := m.deps.Rooms.Update(ctx, r); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "add participant")
	}

	m.log.Info().Str("room_id", roomID).Str("role_id", roleID).Msg("role joined room")
	return r, nil
}

func (m *manager) ListSessions(ctx context.Context, userID, roomID string) ([]*Session, error) {
	if _, err := m.loadOwned(ctx, userID, roomID); err != nil {
		return nil, err
	}
	return m.deps.Sessions.ListByRoom(ctx, roomID)
}

// transitionLog collects what a mutation did besides changing the room: the
// session writes to undo if the room cannot be persisted, and whether the
// current runner must be halted once it is.
type transitionLog struct {
	halt bool
	undo []func(ctx context.Context) error
}

// transition runs mutate under the room lock and persists the room. Runner
// side effects and the status announcement happen only after the room is
// stored, so a failed write leaves both the room and its sessions as they were.
func (m *manager) transition(ctx context.Context, userID, roomID string, mutate func(r *room.Room, tx *transitionLog) error) (*room.Room, error) {
	unlock, err := m.deps.Locker.Lock(ctx, room.LockKey(roomID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock room")
	}
	defer unlock()

	r, err := m.loadOwned(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	from := r.Status

	tx := &transitionLog{}
	if err := mutate(r, tx); err != nil {
		m.rollback(ctx, roomID, tx)
		return nil, err
	}
	if !from.CanTransitionTo(r.Status) {
		m.rollback(ctx, roomID, tx)
		return nil, invalidState(ctx, r, "transition from "+string(from)+" to "+string(r.Status)+" is not allowed")
	}
	r.UpdatedAt = m.now()

	if err := m.deps.Rooms.Update(ctx, r); err != nil {
		m.rollback(ctx, roomID, tx)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update room status")
	}

	if tx.halt {
		m.deps.Runner.Halt(r.ID)
	}
	if r.Status == room.StatusRunning {
		m.deps.Runner.Launch(r.ID)
	}
	m.deps.Publisher.Publish(ctx, r.ID, NewStatusEnvelope(r))

	m.log.Info().
		Str("room_id", r.ID).
		Str("from", string(from)).
		Str("to", string(r.Status)).
		Str("session_id", r.SessionID()).
		Msg("room status changed")
	return r, nil
}

// rollback undoes session writes newest first.
func (m *manager) rollback(ctx context.Context, roomID string, tx *transitionLog) {
	ctx = context.WithoutCancel(ctx)
	for i := len(tx.undo) - 1; i >= 0; i-- {
		if err := tx.undo[i](ctx); err != nil {
			m.log.Error().Err(err).Str("room_id", roomID).Msg("roll back session change")
		}
	}
}

func (m *manager) openSession(ctx context.Context, r *room.Room, tx *transitionLog) error {
	if len(r.RoleIDs) == 0 {
		return noParticipants(ctx, r)
	}

	sess := &Session{
		ID:        idgen.NewSessionID(m.now()),
		RoomID:    r.ID,
		Status:    StatusOpen,
		StartedAt: m.now(),
	}
	if err := m.deps.Sessions.Create(ctx, sess); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create session")
	}
	tx.undo = append(tx.undo, func(ctx context.Context) error {
		sess.Close(m.now())
		return m.deps.Sessions.Update(ctx, sess)
	})

	r.CurrentSessionID = &sess.ID
	r.CurrentRounds = 0
	r.Status = room.StatusRunning
	r.LastError = ""
	return nil
}

func (m *manager) closeCurrent(ctx context.Context, r *room.Room, tx *transitionLog) error {
	if r.CurrentSessionID == nil {
		return nil
	}
	sess, err := m.deps.Sessions.Get(ctx, *r.CurrentSessionID)
	if err != nil {
		return err
	}
	if !sess.IsOpen() {
		return nil
	}
	sess.Close(m.now())
	if err := m.deps.Sessions.Update(ctx, sess); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "close session")
	}
	tx.undo = append(tx.undo, func(ctx context.Context) error {
		sess.Status = StatusOpen
		sess.ClosedAt = nil
		return m.deps.Sessions.Update(ctx, sess)
	})
	return nil
}

func (m *manager) loadOwned(ctx context.Context, userID, roomID string) (*room.Room, error) {
	r, err := m.deps.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "room", roomID, r.OwnerID, userID); err != nil {
		return nil, err
	}
	return r, nil
}

func invalidState(ctx context.Context, r *room.Room, message string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
		message, nil, map[string]any{"room_id": r.ID, "status": string(r.Status)})
}

func noParticipants(ctx context.Context, r *room.Room) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		"room has no participants; join at least one role first", nil, map[string]any{"room_id": r.ID})
}
