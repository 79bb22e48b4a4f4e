package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/utils/idgen"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
	"github.com/janhq/arena-server/internal/utils/validation"
)

// Service manages chat sessions and completions.
type Service interface {
	ListSessions(ctx context.Context, userID string) ([]*Session, error)
	CreateSession(ctx context.Context, userID string, params CreateParams) (*Session, error)
	GetSession(ctx context.Context, userID, id string) (*Session, error)
	DeleteSession(ctx context.Context, userID, id string) error
	Messages(ctx context.Context, userID, id string, page message.Page) (*message.FetchResult, error)
	// Complete appends the user message, generates a reply and appends it. When
	// onDelta is non-nil the reply is streamed through it as it is produced.
	Complete(ctx context.Context, userID string, params CompletionParams, onDelta func(delta string) error) (*CompletionResult, error)
}

// Dependencies groups the collaborators of the chat service.
type Dependencies struct {
	Repo         Repository
	Messages     message.Repository
	Agents       agent.Service
	Roles        role.Service
	Generator    llm.StreamGenerator
	Locker       room.Locker
	MaxTokens    int
	HistoryLimit int
}

type service struct {
	deps Dependencies
	log  zerolog.Logger
}

// NewService wires the chat service.
func NewService(deps Dependencies, log zerolog.Logger) Service {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 50
	}
	return &service{
		deps: deps,
		log:  log.With().Str("component", "chat-service").Logger(),
	}
}

func lockKey(id string) string {
	return "chat:" + id
}

func (s *service) ListSessions(ctx context.Context, userID string) ([]*Session, error) {
	return s.deps.Repo.List(ctx, userID)
}

func (s *service) CreateSession(ctx context.Context, userID string, params CreateParams) (*Session, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}
	if _, _, err := s.resolvePersona(ctx, userID, params.AgentID, params.RoleID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = "New chat"
	}
	return s.create(ctx, userID, params.AgentID, params.RoleID, title)
}

func (s *service) GetSession(ctx context.Context, userID, id string) (*Session, error) {
	sess, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "chat session", id, sess.OwnerID, userID); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) DeleteSession(ctx context.Context, userID, id string) error {
	unlock, err := s.deps.Locker.Lock(ctx, lockKey(id))
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock chat session")
	}
	defer unlock()

	if _, err := s.GetSession(ctx, userID, id); err != nil {
		return err
	}
	if err := s.deps.Messages.DeleteBySession(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete chat messages")
	}
	if err := s.deps.Repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete chat session")
	}
	return nil
}

func (s *service) Messages(ctx context.Context, userID, id string, page message.Page) (*message.FetchResult, error) {
	if _, err := s.GetSession(ctx, userID, id); err != nil {
		return nil, err
	}
	page = page.Normalize()
	messages, err := s.deps.Messages.List(ctx, id, page.AfterID, page.Limit+1)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list chat messages")
	}
	hasMore := len(messages) > page.Limit
	if hasMore {
		messages = messages[:page.Limit]
	}
	return &message.FetchResult{SessionID: id, Messages: messages, HasMore: hasMore}, nil
}

func (s *service) Complete(ctx context.Context, userID string, params CompletionParams, onDelta func(delta string) error) (*CompletionResult, error) {
	params.Message = strings.TrimSpace(params.Message)
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}

	ag, persona, err := s.resolvePersona(ctx, userID, params.AgentID, params.RoleID)
	if err != nil {
		return nil, err
	}

	var sess *Session
	if params.SessionID == "" {
		sess, err = s.create(ctx, userID, params.AgentID, params.RoleID, titleFrom(params.Message))
	} else {
		sess, err = s.GetSession(ctx, userID, params.SessionID)
	}
	if err != nil {
		return nil, err
	}

	userMsg, err := s.append(ctx, sess, &message.Message{
		Sender:     message.FromUser(userID),
		SenderName: "User",
		Kind:       message.KindUser,
		Content:    params.Message,
	})
	if err != nil {
		return nil, err
	}

	history, err := s.deps.Messages.Recent(ctx, sess.ID, s.deps.HistoryLimit)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load chat history")
	}

	req := llm.Request{
		Provider:    ag.Provider,
		Model:       ag.ModelName,
		APIKey:      ag.APIKey,
		Temperature: ag.Temperature,
		MaxTokens:   s.deps.MaxTokens,
		Messages:    buildChatMessages(role.ComposeSystemPrompt(ag.SystemPrompt, persona), history),
	}

	var resp llm.Response
	if onDelta != nil {
		resp, err = s.deps.Generator.Stream(ctx, req, onDelta)
	} else {
		resp, err = s.deps.Generator.Generate(ctx, req)
	}
	if err != nil {
		return nil, providerFailure(ctx, err)
	}

	sender := message.FromAgent(ag.ID)
	name := ag.Name
	if persona != nil {
		sender = message.FromRole(persona.ID, ag.ID)
		name = persona.Name
	}
	reply, err := s.append(ctx, sess, &message.Message{
		Sender:     sender,
		SenderName: name,
		Kind:       message.KindAssistant,
		Content:    resp.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CompletionResult{SessionID: sess.ID, UserMessage: userMsg, Reply: reply}, nil
}

func (s *service) create(ctx context.Context, userID, agentID, roleID, title string) (*Session, error) {
	id, err := idgen.GenerateSecureID(idgen.PrefixChatSession, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate chat session id")
	}
	now := time.Now().UTC()
	sess := &Session{
		ID:        id,
		OwnerID:   userID,
		AgentID:   agentID,
		RoleID:    roleID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Repo.Create(ctx, sess); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create chat session")
	}
	return sess, nil
}

func (s *service) append(ctx context.Context, sess *Session, m *message.Message) (*message.Message, error) {
	unlock, err := s.deps.Locker.Lock(ctx, lockKey(sess.ID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock chat session")
	}
	defer unlock()

	if _, err := s.deps.Repo.Get(ctx, sess.ID); err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeSessionClosed,
				"chat session was deleted", err)
		}
		return nil, err
	}

	m.SessionID = sess.ID
	m.CreatedAt = time.Now().UTC()
	if err := s.deps.Messages.Append(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append chat message")
	}

	sess.UpdatedAt = m.CreatedAt
	if err := s.deps.Repo.Update(ctx, sess); err != nil {
		s.log.Warn().Err(err).Str("chat_session_id", sess.ID).Msg("touch chat session")
	}
	return m, nil
}

func (s *service) resolvePersona(ctx context.Context, userID, agentID, roleID string) (*agent.Agent, *role.Role, error) {
	ag, err := s.deps.Agents.GetForUser(ctx, userID, agentID)
	if err != nil {
		return nil, nil, err
	}
	if roleID == "" {
		return ag, nil, nil
	}
	r, err := s.deps.Roles.GetForUser(ctx, userID, roleID)
	if err != nil {
		return nil, nil, err
	}
	return ag, r, nil
}

func buildChatMessages(systemPrompt string, history []*message.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(history)+1)
	if systemPrompt != "" {
		out = append(out, llm.ChatMessage{Role: llm.ChatRoleSystem, Content: systemPrompt})
	}
	for _, m := range history {
		switch m.Kind {
		case message.KindAssistant:
			out = append(out, llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: m.Content})
		case message.KindUser:
			out = append(out, llm.ChatMessage{Role: llm.ChatRoleUser, Content: m.Content})
		}
	}
	return out
}

func providerFailure(ctx context.Context, err error) error {
	if platformerrors.GetPlatformError(err) != nil {
		return err
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, err.Error(), err)
}
