// Package arenaclient is a Go client for the arena REST API and room streams.
package arenaclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is a non 2xx answer from the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       string `json:"code,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("arena api %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("arena api %d %s: %s", e.StatusCode, e.Type, e.Message)
}

type errorBody struct {
	Error *APIError `json:"error"`
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == status
}

// Client talks to one arena server.
type Client struct {
	baseURL string
	token   string
	http    *resty.Client
}

type Option func(*Client)

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithHTTPClient replaces the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc).
			SetBaseURL(c.baseURL).
			SetHeader("Accept", "application/json")
	}
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL: baseURL,
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	return c.token
}

// SetToken swaps the bearer token, typically after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	return req
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return checkResponse(resp)
}

func checkResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	if body, ok := resp.Error().(*errorBody); ok && body.Error != nil {
		body.Error.StatusCode = resp.StatusCode()
		return body.Error
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(resp.String())}
}

func roomPath(id string, parts ...string) string {
	p := "/v1/rooms/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", params, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a bearer token and keeps it on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	var tok Token
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		SetFormData(map[string]string{"username": username, "password": password}).
		SetResult(&tok).
		Post("/v1/auth/token")
	if err != nil {
		return nil, fmt.Errorf("POST /v1/auth/token: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	c.token = tok.AccessToken
	return &tok, nil
}

func (c *Client) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	var st AuthStatus
	if err := c.do(ctx, http.MethodGet, "/v1/auth/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var out list[Agent]
	if err := c.do(ctx, http.MethodGet, "/v1/agents", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateAgent(ctx context.Context, params AgentParams) (*Agent, error) {
	var a Agent
	if err := c.do(ctx, http.MethodPost, "/v1/agents", params, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) GetAgent(ctx context.Context, id string) (*Agent, error) {
	var a Agent
	if err := c.do(ctx, http.MethodGet, "/v1/agents/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAgent sends only the non zero fields of params.
func (c *Client) UpdateAgent(ctx context.Context, id string, params AgentParams) (*Agent, error) {
	var a Agent
	if err := c.do(ctx, http.MethodPatch, "/v1/agents/"+url.PathEscape(id), params, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAgent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/agents/"+url.PathEscape(id), nil, &deleted{})
}

func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var out list[Role]
	if err := c.do(ctx, http.MethodGet, "/v1/roles", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateRole(ctx context.Context, params RoleParams) (*Role, error) {
	var r Role
	if err := c.do(ctx, http.MethodPost, "/v1/roles", params, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetRole(ctx context.Context, id string) (*Role, error) {
	var r Role
	if err := c.do(ctx, http.MethodGet, "/v1/roles/"+url.PathEscape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateRole(ctx context.Context, id string, params RoleParams) (*Role, error) {
	var r Role
	if err := c.do(ctx, http.MethodPatch, "/v1/roles/"+url.PathEscape(id), params, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteRole(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/roles/"+url.PathEscape(id), nil, &deleted{})
}

func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var out list[Room]
	if err := c.do(ctx, http.MethodGet, "/v1/rooms", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateRoom(ctx context.Context, params RoomParams) (*Room, error) {
	var r Room
	if err := c.do(ctx, http.MethodPost, "/v1/rooms", params, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) GetRoom(ctx context.Context, id string) (*Room, error) {
	return c.roomCall(ctx, http.MethodGet, roomPath(id), nil)
}

func (c *Client) UpdateRoom(ctx context.Context, id string, params RoomParams) (*Room, error) {
	return c.roomCall(ctx, http.MethodPatch, roomPath(id), params)
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, roomPath(id), nil, &deleted{})
}

// JoinRoom appends a role to the room's ordered participants.
func (c *Client) JoinRoom(ctx context.Context, id, roleID string) (*Room, error) {
	return c.roomCall(ctx, http.MethodPost, roomPath(id, "join"), map[string]string{"role_id": roleID})
}

func (c *Client) StartRoom(ctx context.Context, id string) (*Room, error) {
	return c.roomCall(ctx, http.MethodPost, roomPath(id, "start"), nil)
}

func (c *Client) StopRoom(ctx context.Context, id string) (*Room, error) {
	return c.roomCall(ctx, http.MethodPost, roomPath(id, "stop"), nil)
}

func (c *Client) RestartRoom(ctx context.Context, id string) (*Room, error) {
	return c.roomCall(ctx, http.MethodPost, roomPath(id, "restart"), nil)
}

func (c *Client) FinishRoom(ctx context.Context, id string) (*Room, error) {
	return c.roomCall(ctx, http.MethodPost, roomPath(id, "finish"), nil)
}

func (c *Client) roomCall(ctx context.Context, method, path string, body any) (*Room, error) {
	var r Room
	if err := c.do(ctx, method, path, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) ListSessions(ctx context.Context, roomID string) ([]Session, error) {
	var out list[Session]
	if err := c.do(ctx, http.MethodGet, roomPath(roomID, "sessions"), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FetchMessages returns one page of a room transcript.
func (c *Client) FetchMessages(ctx context.Context, roomID string, q MessagesQuery) (*FetchResult, error) {
	params := map[string]string{}
	if q.SessionID != "" {
		params["session_id"] = q.SessionID
	}
	if q.AfterID > 0 {
		params["after_id"] = strconv.FormatInt(q.AfterID, 10)
	}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}

	var out FetchResult
	resp, err := c.request(ctx).SetQueryParams(params).SetResult(&out).Get(roomPath(roomID, "messages"))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", roomPath(roomID, "messages"), err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAll pages through a transcript starting after afterID.
func (c *Client) FetchAll(ctx context.Context, roomID, sessionID string, afterID int64) (*FetchResult, error) {
	all := &FetchResult{SessionID: sessionID, Messages: []Message{}}
	for {
		page, err := c.FetchMessages(ctx, roomID, MessagesQuery{SessionID: all.SessionID, AfterID: afterID})
		if err != nil {
			return nil, err
		}
		if all.SessionID == "" {
			all.SessionID = page.SessionID
		}
		all.Messages = append(all.Messages, page.Messages...)
		if !page.HasMore || len(page.Messages) == 0 {
			return all, nil
		}
		afterID = page.Messages[len(page.Messages)-1].ID
	}
}

// PostMessage says something in the room's current session.
func (c *Client) PostMessage(ctx context.Context, roomID, content string) (*Message, error) {
	var m Message
	if err := c.do(ctx, http.MethodPost, roomPath(roomID, "messages"), map[string]string{"content": content}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) ListChatSessions(ctx context.Context) ([]ChatSession, error) {
	var out list[ChatSession]
	if err := c.do(ctx, http.MethodGet, "/v1/chat/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) CreateChatSession(ctx context.Context, params ChatSessionParams) (*ChatSession, error) {
	var s ChatSession
	if err := c.do(ctx, http.MethodPost, "/v1/chat/sessions", params, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteChatSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/chat/sessions/"+url.PathEscape(id), nil, &deleted{})
}

func (c *Client) ChatMessages(ctx context.Context, id string) (*FetchResult, error) {
	var out FetchResult
	if err := c.do(ctx, http.MethodGet, "/v1/chat/sessions/"+url.PathEscape(id)+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Complete runs one standalone chat turn and waits for the whole reply.
func (c *Client) Complete(ctx context.Context, params CompletionParams) (*CompletionResult, error) {
	params.Stream = false
	var out CompletionResult
	if err := c.do(ctx, http.MethodPost, "/v1/chat/completion", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type streamEvent struct {
	Delta *string   `json:"delta"`
	Error *APIError `json:"error"`
	CompletionResult
}

// CompleteStream runs one standalone chat turn over SSE, calling onDelta for every chunk.
func (c *Client) CompleteStream(ctx context.Context, params CompletionParams, onDelta func(string)) (*CompletionResult, error) {
	params.Stream = true
	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/event-stream").
		SetBody(params).
		SetDoNotParseResponse(true).
		Post("/v1/chat/completion")
	if err != nil {
		return nil, fmt.Errorf("POST /v1/chat/completion: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= http.StatusBadRequest {
		var eb errorBody
		if err := json.NewDecoder(body).Decode(&eb); err != nil || eb.Error == nil {
			return nil, &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		}
		eb.Error.StatusCode = resp.StatusCode()
		return nil, eb.Error
	}

	// a non streaming answer is a plain JSON result
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/event-stream") {
		var out CompletionResult
		if err := json.NewDecoder(body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode completion: %w", err)
		}
		return &out, nil
	}

	var result *CompletionResult
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, fmt.Errorf("decode stream event: %w", err)
		}
		switch {
		case ev.Error != nil:
			ev.Error.StatusCode = resp.StatusCode()
			return nil, ev.Error
		case ev.Delta != nil:
			if onDelta != nil {
				onDelta(*ev.Delta)
			}
		default:
			r := ev.CompletionResult
			result = &r
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("stream ended without a result")
	}
	return result, nil
}
