package orchestrator

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
)

func testRoles(weights ...float64) []*role.Role {
	out := make([]*role.Role, len(weights))
	for i, w := range weights {
		id := string(rune('A' + i))
		out[i] = &role.Role{ID: id, Name: id, Aggressiveness: w}
	}
	return out
}

func TestSelectSpeakerDebateRotates(t *testing.T) {
	roles := testRoles(0.5, 0.5, 0.5)
	sess := &session.Session{}

	var got []string
	rounds := 0
	for i := 0; i < 6; i++ {
		idx := SelectSpeaker(room.ModeDebate, roles, sess, nil)
		got = append(got, roles[idx].ID)
		if advance(room.ModeDebate, sess, roles[idx], len(roles)) {
			rounds++
		}
	}
	assert.Equal(t, []string{"A", "B", "C", "A", "B", "C"}, got)
	assert.Equal(t, 2, rounds)
	assert.Equal(t, 6, sess.TurnCursor)
	assert.Equal(t, "C", sess.LastSpeakerRoleID)
}

func TestSelectSpeakerGroupChat(t *testing.T) {
	tests := []struct {
		name   string
		roles  []*role.Role
		last   string
		random float64
		want   string
	}{
		{"skips last speaker", testRoles(0.5, 0.5), "A", 0.0, "B"},
		{"single role may repeat", testRoles(0.5), "A", 0.9, "A"},
		{"weighted pick low", testRoles(0.1, 0.9, 0.5), "C", 0.05, "A"},
		{"weighted pick high", testRoles(0.1, 0.9, 0.5), "C", 0.5, "B"},
		{"zero weight stays selectable", testRoles(0, 0), "B", 0.99, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &session.Session{LastSpeakerRoleID: tt.last}
			idx := SelectSpeaker(room.ModeGroupChat, tt.roles, sess, func() float64 { return tt.random })
			require.GreaterOrEqual(t, idx, 0)
			assert.Equal(t, tt.want, tt.roles[idx].ID)
		})
	}
}

func TestSelectSpeakerGroupChatFavoursAggressiveRoles(t *testing.T) {
	roles := testRoles(0.1, 1.0, 0.1)
	rng := rand.New(rand.NewSource(7))
	counts := map[string]int{}
	for i := 0; i < 3000; i++ {
		// a neutral last speaker keeps every role eligible
		sess := &session.Session{LastSpeakerRoleID: "Z"}
		idx := SelectSpeaker(room.ModeGroupChat, roles, sess, rng.Float64)
		counts[roles[idx].ID]++
	}
	assert.Greater(t, counts["B"], counts["A"]*4)
	assert.Greater(t, counts["B"], counts["C"]*4)
}

func TestSelectSpeakerNoRoles(t *testing.T) {
	assert.Equal(t, -1, SelectSpeaker(room.ModeDebate, nil, &session.Session{}, nil))
}

func TestGroupChatAdvanceCountsEveryMessage(t *testing.T) {
	roles := testRoles(0.5, 0.5)
	sess := &session.Session{}
	assert.True(t, advance(room.ModeGroupChat, sess, roles[0], 2))
	assert.True(t, advance(room.ModeGroupChat, sess, roles[1], 2))
}

func TestBuildMessages(t *testing.T) {
	rm := &room.Room{Topic: "cats", Mode: room.ModeDebate}
	ag := &agent.Agent{SystemPrompt: "You are witty."}
	roles := testRoles(0.5, 0.5)

	t.Run("opening turn", func(t *testing.T) {
		msgs := buildMessages(rm, ag, roles[0], roles, nil)
		require.Len(t, msgs, 2)
		assert.Equal(t, llm.ChatRoleSystem, msgs[0].Role)
		assert.True(t, strings.HasPrefix(msgs[0].Content, "You are witty."))
		assert.Contains(t, msgs[0].Content, "Role Persona:\nName: A")
		assert.Contains(t, msgs[0].Content, "The other participants are B.")
		assert.Equal(t, "Open the conversation on the topic: cats", msgs[1].Content)
	})

	t.Run("history attribution", func(t *testing.T) {
		history := []*message.Message{
			{Sender: message.FromRole("A", "agt"), SenderName: "A", Kind: message.KindAssistant, Content: "meow"},
			{Sender: message.FromRole("B", "agt"), SenderName: "B", Kind: message.KindAssistant, Content: "woof"},
			{Sender: message.System(), SenderName: "system", Kind: message.KindSystem, Content: "B failed to respond: timeout"},
		}
		msgs := buildMessages(rm, ag, roles[0], roles, history)
		require.Len(t, msgs, 4)
		assert.Equal(t, llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: "meow"}, msgs[1])
		assert.Equal(t, llm.ChatMessage{Role: llm.ChatRoleUser, Name: "B", Content: "B: woof"}, msgs[2])
		assert.Equal(t, "[moderator] B failed to respond: timeout", msgs[3].Content)
	})

	t.Run("own last line asks to continue", func(t *testing.T) {
		history := []*message.Message{
			{Sender: message.FromRole("A", "agt"), SenderName: "A", Kind: message.KindAssistant, Content: "meow"},
		}
		msgs := buildMessages(rm, ag, roles[0], roles, history)
		require.Len(t, msgs, 3)
		assert.Equal(t, "Continue the conversation.", msgs[2].Content)
	})
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Dr_Who-2", sanitizeName("Dr. Who-2!"))
	assert.Len(t, sanitizeName(strings.Repeat("a", 80)), 64)
}
