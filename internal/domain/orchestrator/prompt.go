package orchestrator

import (
	"fmt"
	"strings"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/utils/functional"
)

// buildMessages assembles the provider conversation for speaker.
// Lines spoken by speaker become assistant turns, everything else is attributed
// user content so the model can tell participants apart.
func buildMessages(rm *room.Room, ag *agent.Agent, speaker *role.Role, roles []*role.Role, history []*message.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(history)+2)
	out = append(out, llm.ChatMessage{
		Role:    llm.ChatRoleSystem,
		Content: role.ComposeSystemPrompt(ag.SystemPrompt, speaker) + "\n\n" + roomInstruction(rm, speaker, roles),
	})

	for _, m := range history {
		switch {
		case m.Sender.Type == message.SenderRole && m.Sender.RoleID == speaker.ID:
			out = append(out, llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: m.Content})
		case m.Kind == message.KindSystem:
			out = append(out, llm.ChatMessage{Role: llm.ChatRoleUser, Content: "[moderator] " + m.Content})
		default:
			out = append(out, llm.ChatMessage{Role: llm.ChatRoleUser, Name: sanitizeName(m.SenderName), Content: fmt.Sprintf("%s: %s", m.SenderName, m.Content)})
		}
	}

	if len(history) == 0 {
		out = append(out, llm.ChatMessage{Role: llm.ChatRoleUser, Content: "Open the conversation on the topic: " + rm.Topic})
	} else if out[len(out)-1].Role == llm.ChatRoleAssistant {
		out = append(out, llm.ChatMessage{Role: llm.ChatRoleUser, Content: "Continue the conversation."})
	}
	return out
}

func roomInstruction(rm *room.Room, speaker *role.Role, roles []*role.Role) string {
	others := functional.Map(
		functional.Filter(roles, func(r *role.Role) bool { return r.ID != speaker.ID }),
		func(r *role.Role) string { return r.Name },
	)

	var b strings.Builder
	if rm.Mode == room.ModeGroupChat {
		fmt.Fprintf(&b, "You are %s in a group chat about: %s.", speaker.Name, rm.Topic)
	} else {
		fmt.Fprintf(&b, "You are %s in a debate on the topic: %s.", speaker.Name, rm.Topic)
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, " The other participants are %s.", strings.Join(others, ", "))
	}
	b.WriteString(" Stay in character, respond to what was said last, and keep your reply to a few sentences. Do not prefix your reply with your name.")
	return b.String()
}

// sanitizeName keeps the characters providers accept in the message name field.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() > 64 {
		return b.String()[:64]
	}
	return b.String()
}
