package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/janhq/arena-server/internal/config"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/auth"
	"github.com/janhq/arena-server/internal/infrastructure/llmprovider"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/interfaces/httpserver"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

const testSecret = "http-test-secret"

// idleRunner accepts lifecycle calls without generating turns.
type idleRunner struct{}

func (idleRunner) Launch(string) {}
func (idleRunner) Halt(string)   {}

type env struct {
	handler http.Handler
	hub     *realtime.Hub
}

func newEnv(t *testing.T, ready httpserver.ReadyCheck) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	cfg := &config.Config{
		ServiceName:          "arena-test",
		Environment:          "test",
		AuthEnabled:          true,
		JWTSecret:            testSecret,
		ShutdownTimeout:      time.Second,
		RealtimeWriteTimeout: time.Second,
		RealtimePingInterval: time.Minute,
	}

	store := memrepo.NewStore()
	locker := lock.NewLocal()
	hub := realtime.NewHub(16, nil, log)
	t.Cleanup(hub.Shutdown)

	agents := agent.NewService(store.Agents, store.Roles, "", log)
	roles := role.NewService(store.Roles, agents, store.Rooms, log)
	rooms := room.NewService(room.Dependencies{
		Repo:      store.Rooms,
		Roles:     roles,
		Locker:    locker,
		Halter:    idleRunner{},
		Publisher: hub,
		Purgers:   []room.Purger{store.Messages, store.Sessions},
	}, log)
	manager := session.NewManager(session.ManagerDependencies{
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Roles:     roles,
		Locker:    locker,
		Runner:    idleRunner{},
		Publisher: hub,
	}, log)
	messages := message.NewService(message.Dependencies{
		Repo:      store.Messages,
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Locker:    locker,
		Publisher: hub,
	}, log)
	chats := chat.NewService(chat.Dependencies{
		Repo:      store.Chats,
		Messages:  store.Messages,
		Agents:    agents,
		Roles:     roles,
		Generator: llmprovider.Mock{},
		Locker:    locker,
		MaxTokens: 256,
	}, log)
	users := user.NewService(store.Users, auth.BcryptHasher{Cost: bcrypt.MinCost}, "", log)

	issuer, err := auth.NewIssuer(testSecret, cfg.AuthIssuer, cfg.AuthAudience, time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewValidator(context.Background(), auth.ValidatorConfig{
		Secret:   testSecret,
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
	}, log)
	require.NoError(t, err)

	provider := handlers.NewProvider(handlers.Services{
		Agents:   agents,
		Roles:    roles,
		Rooms:    rooms,
		Sessions: manager,
		Messages: messages,
		Chats:    chats,
		Users:    users,
		Issuer:   issuer,
		Hub:      hub,
	}, handlers.RealtimeConfig{WriteTimeout: time.Second, PingInterval: time.Minute}, log)

	srv := httpserver.New(cfg, log, provider, validator, ready)
	return &env{handler: srv.Handler(), hub: hub}
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *env) login(t *testing.T, username string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	form := url.Values{"username": {username}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	decode(t, rec, &tok)
	require.Equal(t, "bearer", tok.TokenType)
	require.Equal(t, int64(3600), tok.ExpiresIn)
	return tok.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// seedRoom creates an agent, a role and a room with that role as participant.
func (e *env) seedRoom(t *testing.T, token string) (agentID, roleID, roomID string) {
	t.Helper()
	var a struct{ ID string }
	w := e.do(t, http.MethodPost, "/v1/agents", token, map[string]any{"name": "Socrates", "provider": "mock", "model_name": "mock-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &a)

	var r struct{ ID string }
	w = e.do(t, http.MethodPost, "/v1/roles", token, map[string]any{"agent_id": a.ID, "name": "Skeptic"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &r)

	var rm struct{ ID string }
	w = e.do(t, http.MethodPost, "/v1/rooms", token, map[string]any{"name": "Agora", "topic": "Is virtue teachable?", "role_ids": []string{r.ID}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &rm)
	return a.ID, r.ID, rm.ID
}

func TestCoreRoutes(t *testing.T) {
	e := newEnv(t, func(context.Context) error { return errors.New("database down") })

	tests := []struct {
		path string
		want int
	}{
		{"/", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := e.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthGate(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(t, http.MethodGet, "/v1/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/v1/rooms", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := e.login(t, "alice")
	w = e.do(t, http.MethodGet, "/v1/auth/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
	}
	decode(t, w, &status)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "alice", status.Username)

	w = e.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{"username": "ALICE", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAgentResponseHidesAPIKey(t *testing.T) {
	e := newEnv(t, nil)
	token := e.login(t, "alice")

	w := e.do(t, http.MethodPost, "/v1/agents", token, map[string]any{
		"name": "Keyed", "provider": "openai", "model_name": "gpt-4o-mini", "api_key": "sk-very-secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "sk-very-secret")

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, true, body["has_api_key"])
	assert.NotContains(t, body, "api_key")

	w = e.do(t, http.MethodGet, "/v1/agents", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, w, &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, true, list.Data[0]["has_api_key"])
}

func TestDeletePolicies(t *testing.T) {
	e := newEnv(t, nil)
	token := e.login(t, "alice")
	agentID, roleID, roomID := e.seedRoom(t, token)

	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodDelete, "/v1/agents/"+agentID, token, nil).Code)
	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodDelete, "/v1/roles/"+roleID, token, nil).Code)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/v1/rooms/"+roomID, token, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/v1/roles/"+roleID, token, nil).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/v1/agents/"+agentID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/v1/rooms/"+roomID, token, nil).Code)
}

func TestOwnership(t *testing.T) {
	e := newEnv(t, nil)
	alice := e.login(t, "alice")
	bob := e.login(t, "bob")
	_, _, roomID := e.seedRoom(t, alice)

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/v1/rooms/"+roomID, bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/start", bob, nil).Code)

	w := e.do(t, http.MethodGet, "/v1/rooms", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

type roomBody struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	SessionID *string `json:"session_id"`
}

type fetchBody struct {
	SessionID string `json:"session_id"`
	Messages  []struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
		Role    string `json:"role"`
	} `json:"messages"`
	HasMore bool `json:"has_more"`
}

func TestRoomLifecycleAndHistory(t *testing.T) {
	e := newEnv(t, nil)
	token := e.login(t, "alice")
	_, _, roomID := e.seedRoom(t, token)
	base := "/v1/rooms/" + roomID

	// no session yet
	w := e.do(t, http.MethodPost, base+"/messages", token, map[string]string{"content": "hello?"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var started roomBody
	w = e.do(t, http.MethodPost, base+"/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &started)
	require.NotNil(t, started.SessionID)
	assert.Equal(t, "running", started.Status)
	first := *started.SessionID

	for _, text := range []string{"one", "two"} {
		w = e.do(t, http.MethodPost, base+"/messages", token, map[string]string{"content": text})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	var stopped roomBody
	w = e.do(t, http.MethodPost, base+"/stop", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &stopped)
	assert.Equal(t, "stopped", stopped.Status)

	// stop then start resumes the same session
	var resumed roomBody
	w = e.do(t, http.MethodPost, base+"/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resumed)
	assert.Equal(t, first, *resumed.SessionID)

	var restarted roomBody
	w = e.do(t, http.MethodPost, base+"/restart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &restarted)
	require.NotNil(t, restarted.SessionID)
	assert.NotEqual(t, first, *restarted.SessionID)

	var current fetchBody
	w = e.do(t, http.MethodGet, base+"/messages", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &current)
	assert.Equal(t, *restarted.SessionID, current.SessionID)
	assert.Empty(t, current.Messages)

	var old fetchBody
	w = e.do(t, http.MethodGet, base+"/messages?session_id="+first, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &old)
	require.Len(t, old.Messages, 2)
	assert.Equal(t, int64(1), old.Messages[0].ID)
	assert.Equal(t, "one", old.Messages[0].Content)
	assert.Equal(t, int64(2), old.Messages[1].ID)

	var page fetchBody
	w = e.do(t, http.MethodGet, base+"/messages?session_id="+first+"&after_id=1&limit=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, int64(2), page.Messages[0].ID)
	assert.False(t, page.HasMore)

	var sessions struct {
		Data []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	w = e.do(t, http.MethodGet, base+"/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &sessions)
	assert.Len(t, sessions.Data, 2)

	var finished roomBody
	w = e.do(t, http.MethodPost, base+"/finish", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &finished)
	assert.Equal(t, "finished", finished.Status)

	w = e.do(t, http.MethodPost, base+"/messages", token, map[string]string{"content": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestJoinConflictsWhileSessionOpen(t *testing.T) {
	e := newEnv(t, nil)
	token := e.login(t, "alice")
	agentID, _, roomID := e.seedRoom(t, token)

	var extra struct{ ID string }
	w := e.do(t, http.MethodPost, "/v1/roles", token, map[string]any{"agent_id": agentID, "name": "Believer"})
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &extra)

	w = e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/join", token, map[string]string{"role_id": extra.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/join", token, map[string]string{"role_id": extra.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/start", token, nil).Code)
	w = e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/join", token, map[string]string{"role_id": extra.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/join", token, map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestChatCompletion(t *testing.T) {
	e := newEnv(t, nil)
	token := e.login(t, "alice")
	agentID, _, _ := e.seedRoom(t, token)

	w := e.do(t, http.MethodPost, "/v1/chat/completion", token, map[string]any{"agent_id": agentID, "message": "What is justice?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		SessionID   string `json:"session_id"`
		UserMessage struct {
			ID int64 `json:"id"`
		} `json:"user_message"`
		Reply struct {
			ID      int64  `json:"id"`
			Content string `json:"content"`
			Role    string `json:"role"`
		} `json:"reply"`
	}
	decode(t, w, &result)
	require.NotEmpty(t, result.SessionID)
	assert.Equal(t, int64(1), result.UserMessage.ID)
	assert.Equal(t, int64(2), result.Reply.ID)
	assert.Equal(t, "assistant", result.Reply.Role)
	assert.Contains(t, result.Reply.Content, "What is justice?")

	w = e.do(t, http.MethodPost, "/v1/chat/completion", token, map[string]any{
		"agent_id": agentID, "session_id": result.SessionID, "message": "And courage?", "stream": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `data: {"delta":`)
	assert.True(t, strings.HasSuffix(body, "data: [DONE]\n\n"))

	var transcript fetchBody
	w = e.do(t, http.MethodGet, "/v1/chat/sessions/"+result.SessionID+"/messages", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &transcript)
	require.Len(t, transcript.Messages, 4)
	assert.Equal(t, int64(4), transcript.Messages[3].ID)

	var sessions struct {
		Data []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	w = e.do(t, http.MethodGet, "/v1/chat/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &sessions)
	require.Len(t, sessions.Data, 1)
	assert.Equal(t, "What is justice?", sessions.Data[0].Title)

	assert.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/v1/chat/sessions/"+result.SessionID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/v1/chat/sessions/"+result.SessionID+"/messages", token, nil).Code)
}

func TestRealtimeGateway(t *testing.T) {
	e := newEnv(t, nil)
	token := e.login(t, "alice")
	_, _, roomID := e.seedRoom(t, token)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/start", token, nil).Code)

	ts := httptest.NewServer(e.handler)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws/rooms/" + roomID

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var status struct {
		Type string `json:"type"`
		Data struct {
			Status    string `json:"status"`
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&status))
	assert.Equal(t, "status", status.Type)
	assert.Equal(t, "running", status.Data.Status)
	assert.NotEmpty(t, status.Data.SessionID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var errEnv struct {
		Type string `json:"type"`
		Data struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&errEnv))
	assert.Equal(t, "error", errEnv.Type)
	assert.Equal(t, realtime.CodeInvalidFrame, errEnv.Data.Code)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "message", "data": map[string]string{"content": "from the socket"}}))
	var msg struct {
		Type string `json:"type"`
		Data struct {
			ID         int64  `json:"id"`
			SessionID  string `json:"session_id"`
			Content    string `json:"content"`
			SenderName string `json:"sender_name"`
			SenderType string `json:"sender_type"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, int64(1), msg.Data.ID)
	assert.Equal(t, status.Data.SessionID, msg.Data.SessionID)
	assert.Equal(t, "from the socket", msg.Data.Content)
	assert.Equal(t, "alice", msg.Data.SenderName)
	assert.Equal(t, "user", msg.Data.SenderType)

	// REST appends reach the socket too
	w := e.do(t, http.MethodPost, "/v1/rooms/"+roomID+"/messages", token, map[string]string{"content": "from rest"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, int64(2), msg.Data.ID)

	// deleting the room closes the connection
	require.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, "/v1/rooms/"+roomID, token, nil).Code)
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
}
