package orchestrator

import (
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
)

// minWeight keeps a role with zero aggressiveness selectable.
const minWeight = 0.05

// SelectSpeaker picks the index of the next role to speak.
//
// Debate rooms rotate through roles in participant order using the session turn
// cursor. Group chat rooms draw a role at random, weighted by aggressiveness,
// never picking the previous speaker twice in a row when another role exists.
// random must return values in [0, 1).
func SelectSpeaker(mode room.Mode, roles []*role.Role, sess *session.Session, random func() float64) int {
	n := len(roles)
	if n == 0 {
		return -1
	}
	if mode != room.ModeGroupChat {
		return sess.TurnCursor % n
	}

	weights := make([]float64, n)
	total := 0.0
	for i, r := range roles {
		if n > 1 && r.ID == sess.LastSpeakerRoleID {
			continue
		}
		w := r.Aggressiveness
		if w < minWeight {
			w = minWeight
		}
		weights[i] = w
		total += w
	}

	target := random() * total
	last := -1
	for i, w := range weights {
		if w == 0 {
			continue
		}
		last = i
		if target < w {
			return i
		}
		target -= w
	}
	return last
}

// advance moves the session past the speaker at index and reports whether a round completed.
func advance(mode room.Mode, sess *session.Session, speaker *role.Role, participants int) bool {
	sess.TurnCursor++
	sess.LastSpeakerRoleID = speaker.ID
	if mode == room.ModeGroupChat {
		return true
	}
	return participants > 0 && sess.TurnCursor%participants == 0
}
