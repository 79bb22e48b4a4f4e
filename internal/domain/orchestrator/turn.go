package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
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

var errEmptyReply = errors.New("provider returned an empty reply")

// turnPlan is the snapshot a turn generates from. Nothing in it is persisted
// until commit re-validates it under the room lock.
type turnPlan struct {
	room    *room.Room
	session *session.Session
	roles   []*role.Role
	speaker *role.Role
	agent   *agent.Agent
}

// turn runs one speaker slot and reports whether the loop should continue.
func (s *Supervisor) turn(ctx context.Context, r *runner) bool {
	started := time.Now()

	plan, ok := s.plan(ctx, r)
	if !ok {
		return false
	}

	ctx, span := s.tracer.Start(ctx, "orchestrator.turn", trace.WithAttributes(
		attribute.String("room.id", plan.room.ID),
		attribute.String("room.mode", string(plan.room.Mode)),
		attribute.String("session.id", plan.session.ID),
		attribute.String("role.id", plan.speaker.ID),
	))
	defer span.End()

	content, attempts, genErr := s.generate(ctx, plan)
	if ctx.Err() != nil {
		s.finishTurn(plan, OutcomeAbandoned, attempts, started)
		return false
	}
	if genErr != nil {
		span.RecordError(genErr)
		span.SetStatus(codes.Error, genErr.Error())
	}

	outcome, cont := s.commit(ctx, r, plan, content, genErr)
	span.SetAttributes(attribute.String("turn.outcome", outcome), attribute.Int("turn.attempts", attempts))
	s.finishTurn(plan, outcome, attempts, started)
	return cont
}

func (s *Supervisor) finishTurn(plan *turnPlan, outcome string, attempts int, started time.Time) {
	s.deps.Observer.TurnFinished(plan.room.Mode, outcome, attempts, time.Since(started))
	s.log.Debug().
		Str("room_id", plan.room.ID).
		Str("session_id", plan.session.ID).
		Str("role_id", plan.speaker.ID).
		Str("outcome", outcome).
		Int("attempts", attempts).
		Dur("duration", time.Since(started)).
		Msg("turn finished")
}

// plan loads the room state and picks the next speaker. A false result ends the loop.
func (s *Supervisor) plan(ctx context.Context, r *runner) (*turnPlan, bool) {
	rm, err := s.deps.Rooms.Get(ctx, r.roomID)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn().Err(err).Str("room_id", r.roomID).Msg("load room for turn")
		}
		return nil, false
	}
	if rm.Status != room.StatusRunning || rm.CurrentSessionID == nil {
		return nil, false
	}

	sess, err := s.deps.Sessions.Get(ctx, *rm.CurrentSessionID)
	if err != nil || !sess.IsOpen() {
		return nil, false
	}
	if rm.CurrentRounds >= rm.MaxRounds {
		s.finishAtBound(ctx, r, rm.ID, sess.ID)
		return nil, false
	}

	roles, err := s.deps.Roles.GetMany(ctx, rm.RoleIDs)
	if err == nil && len(roles) == 0 {
		err = errors.New("room has no participants")
	}
	if err != nil {
		if ctx.Err() == nil {
			s.failRoom(ctx, r, rm.ID, sess.ID, "", "participants unavailable: "+err.Error())
		}
		return nil, false
	}

	speaker := roles[SelectSpeaker(rm.Mode, roles, sess, s.random)]
	ag, err := s.deps.Agents.Get(ctx, speaker.AgentID)
	if err != nil {
		if ctx.Err() == nil {
			s.failRoom(ctx, r, rm.ID, sess.ID, speaker.ID, fmt.Sprintf("agent of %s unavailable: %v", speaker.Name, err))
		}
		return nil, false
	}

	return &turnPlan{room: rm, session: sess, roles: roles, speaker: speaker, agent: ag}, true
}

func (s *Supervisor) generate(ctx context.Context, plan *turnPlan) (string, int, error) {
	history, err := s.deps.Messages.Recent(ctx, plan.session.ID, s.cfg.ContextMessages)
	if err != nil {
		return "", 0, err
	}

	req := llm.Request{
		Provider:    plan.agent.Provider,
		Model:       plan.agent.ModelName,
		APIKey:      plan.agent.APIKey,
		Temperature: plan.agent.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		Messages:    buildMessages(plan.room, plan.agent, plan.speaker, plan.roles, history),
	}

	content, attempts, err := retry.Do(ctx, s.cfg.Retry, func(ctx context.Context, attempt int) (string, error) {
		if attempt > 0 {
			s.log.Debug().Str("room_id", plan.room.ID).Str("role_id", plan.speaker.ID).Int("attempt", attempt).Msg("retrying turn")
		}
		resp, err := s.deps.Generator.Generate(ctx, req)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(resp.Content)
		if text == "" {
			return "", errEmptyReply
		}
		return text, nil
	})
	return content, attempts, err
}

// commit persists the outcome of a generation if the runner and the session it
// generated for are still current.
func (s *Supervisor) commit(ctx context.Context, r *runner, plan *turnPlan, content string, genErr error) (string, bool) {
	unlock, err := s.deps.Locker.Lock(ctx, room.LockKey(r.roomID))
	if err != nil {
		return OutcomeAbandoned, false
	}
	defer unlock()

	if !s.isCurrent(r) {
		return s.abandon(plan, "runner superseded")
	}
	rm, err := s.deps.Rooms.Get(ctx, r.roomID)
	if err != nil {
		return s.abandon(plan, "room unavailable")
	}
	if rm.Status != room.StatusRunning || rm.SessionID() != plan.session.ID {
		return s.abandon(plan, "room left the session")
	}
	sess, err := s.deps.Sessions.Get(ctx, plan.session.ID)
	if err != nil || !sess.IsOpen() {
		return s.abandon(plan, "session closed")
	}

	speaker := plan.speaker
	outcome := OutcomeSpoken

	if genErr != nil {
		if perr, ok := llm.AsProviderError(genErr); ok && perr.RoomWide() {
			s.stopLocked(ctx, r, rm, speaker.ID, fmt.Sprintf("%s: %s", speaker.Name, perr.Message))
			return OutcomeRoomError, false
		}

		outcome = OutcomeFailed
		reason := failureReason(genErr)
		s.log.Warn().Err(genErr).Str("room_id", rm.ID).Str("role_id", speaker.ID).Msg("turn failed")
		if _, err := s.deps.Messages.AppendLocked(ctx, rm, sess, message.AppendParams{
			SessionID:  sess.ID,
			Sender:     message.System(),
			SenderName: "system",
			Kind:       message.KindSystem,
			Content:    fmt.Sprintf("%s failed to respond: %s", speaker.Name, reason),
		}); err != nil {
			s.log.Error().Err(err).Str("room_id", rm.ID).Msg("append failure notice")
		}
		s.deps.Publisher.Publish(ctx, rm.ID, realtime.Envelope{
			Type: realtime.TypeError,
			Data: realtime.ErrorData{RoomID: rm.ID, Code: realtime.CodeTurnFailed, Message: reason, RoleID: speaker.ID},
		})
	} else {
		if _, err := s.deps.Messages.AppendLocked(ctx, rm, sess, message.AppendParams{
			SessionID:  sess.ID,
			Sender:     message.FromRole(speaker.ID, plan.agent.ID),
			SenderName: speaker.Name,
			Kind:       message.KindAssistant,
			Content:    content,
		}); err != nil {
			s.log.Error().Err(err).Str("room_id", rm.ID).Msg("append reply")
			return OutcomeAbandoned, false
		}
	}

	roundDone := advance(rm.Mode, sess, speaker, len(plan.roles))
	now := time.Now().UTC()
	finished := false
	if roundDone {
		rm.CurrentRounds++
		if rm.CurrentRounds >= rm.MaxRounds {
			finished = true
			rm.Status = room.StatusFinished
			sess.Close(now)
		}
	}

	if err := s.deps.Sessions.Update(ctx, sess); err != nil {
		s.log.Error().Err(err).Str("session_id", sess.ID).Msg("advance session")
		return OutcomeAbandoned, false
	}
	if roundDone {
		rm.UpdatedAt = now
		if err := s.deps.Rooms.Update(ctx, rm); err != nil {
			s.log.Error().Err(err).Str("room_id", rm.ID).Msg("update room rounds")
			return OutcomeAbandoned, false
		}
		s.deps.Publisher.Publish(ctx, rm.ID, session.NewStatusEnvelope(rm))
	}

	if finished {
		s.retire(r)
		s.log.Info().Str("room_id", rm.ID).Str("session_id", sess.ID).Int("rounds", rm.CurrentRounds).Msg("room finished")
		return outcome, false
	}
	return outcome, true
}

func (s *Supervisor) abandon(plan *turnPlan, why string) (string, bool) {
	s.log.Info().Str("room_id", plan.room.ID).Str("session_id", plan.session.ID).Str("reason", why).Msg("turn abandoned")
	return OutcomeAbandoned, false
}

// finishAtBound closes a session that already played max_rounds without
// generating another turn.
func (s *Supervisor) finishAtBound(ctx context.Context, r *runner, roomID, sessionID string) {
	unlock, err := s.deps.Locker.Lock(ctx, room.LockKey(roomID))
	if err != nil {
		return
	}
	defer unlock()

	if !s.isCurrent(r) {
		return
	}
	rm, err := s.deps.Rooms.Get(ctx, roomID)
	if err != nil || rm.Status != room.StatusRunning || rm.SessionID() != sessionID || rm.CurrentRounds < rm.MaxRounds {
		return
	}
	sess, err := s.deps.Sessions.Get(ctx, sessionID)
	if err != nil || !sess.IsOpen() {
		return
	}

	now := time.Now().UTC()
	sess.Close(now)
	if err := s.deps.Sessions.Update(ctx, sess); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("close session at round bound")
		return
	}
	rm.Status = room.StatusFinished
	rm.UpdatedAt = now
	if err := s.deps.Rooms.Update(ctx, rm); err != nil {
		s.log.Error().Err(err).Str("room_id", roomID).Msg("finish room at round bound")
		return
	}
	s.retire(r)
	s.deps.Publisher.Publish(ctx, roomID, session.NewStatusEnvelope(rm))
	s.log.Info().Str("room_id", roomID).Str("session_id", sessionID).Int("rounds", rm.CurrentRounds).Msg("room finished at round bound")
}

// failRoom stops the room after an error no retry can fix.
func (s *Supervisor) failRoom(ctx context.Context, r *runner, roomID, sessionID, roleID, reason string) {
	unlock, err := s.deps.Locker.Lock(ctx, room.LockKey(roomID))
	if err != nil {
		return
	}
	defer unlock()

	if !s.isCurrent(r) {
		return
	}
	rm, err := s.deps.Rooms.Get(ctx, roomID)
	if err != nil || rm.Status != room.StatusRunning || rm.SessionID() != sessionID {
		return
	}
	s.stopLocked(ctx, r, rm, roleID, reason)
}

// stopLocked moves rm to stopped with reason. The caller holds the room lock.
func (s *Supervisor) stopLocked(ctx context.Context, r *runner, rm *room.Room, roleID, reason string) {
	s.retire(r)

	rm.Status = room.StatusStopped
	rm.LastError = reason
	rm.UpdatedAt = time.Now().UTC()
	if err := s.deps.Rooms.Update(ctx, rm); err != nil {
		s.log.Error().Err(err).Str("room_id", rm.ID).Msg("stop room after provider failure")
		return
	}

	s.log.Warn().Str("room_id", rm.ID).Str("role_id", roleID).Str("reason", reason).Msg("room stopped by orchestrator")
	s.deps.Publisher.Publish(ctx, rm.ID, realtime.Envelope{
		Type: realtime.TypeError,
		Data: realtime.ErrorData{RoomID: rm.ID, Code: realtime.CodeProviderFailed, Message: reason, RoleID: roleID},
	})
	s.deps.Publisher.Publish(ctx, rm.ID, session.NewStatusEnvelope(rm))
}

func failureReason(err error) string {
	if perr, ok := llm.AsProviderError(err); ok {
		if perr.Message != "" {
			return perr.Message
		}
		return string(perr.Kind)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "provider timed out"
	}
	return err.Error()
}
