package responses

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// ErrorResponse documents the error body written by HandleError.
type ErrorResponse = platformerrors.HTTPErrorResponse

// HandleError writes err with the status of its platform error type.
func HandleError(c *gin.Context, err error, log zerolog.Logger) {
	platformerrors.WriteError(c, err, log)
}

// HandleNewError writes a route level error that has no underlying cause.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	platformerrors.WriteTyped(c, errorType, message)
}

// ListResponse wraps collections as {"data": [...]}.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// NewList never renders a null data field.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items}
}

// DeletedResponse acknowledges a delete.
type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// AgentResponse hides the provider credential of an agent.
type AgentResponse struct {
	*agent.Agent
	HasAPIKey bool `json:"has_api_key"`
}

// NewAgentResponse maps a domain agent.
func NewAgentResponse(a *agent.Agent) AgentResponse {
	return AgentResponse{Agent: a, HasAPIKey: a.HasAPIKey()}
}

// NewAgentList maps a slice of agents.
func NewAgentList(agents []*agent.Agent) ListResponse[AgentResponse] {
	out := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, NewAgentResponse(a))
	}
	return NewList(out)
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

// AuthStatusResponse describes the caller of the request.
type AuthStatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	UserID        string     `json:"user_id"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
