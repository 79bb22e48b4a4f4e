package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// ChatHandler exposes standalone one-to-one chat.
type ChatHandler struct {
	service chat.Service
	log     zerolog.Logger
}

func NewChatHandler(service chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// DeltaEvent is one streamed fragment of a reply.
type DeltaEvent struct {
	Delta string `json:"delta"`
}

// ListSessions handles GET /v1/chat/sessions
// @Summary List chat sessions
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.ListResponse[chat.Session]
// @Router /v1/chat/sessions [get]
func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context(), userID(c))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewList(sessions))
}

// CreateSession handles POST /v1/chat/sessions
// @Summary Create a chat session
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body chat.CreateParams true "Session"
// @Success 201 {object} chat.Session
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/chat/sessions [post]
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req chat.CreateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	s, err := h.service.CreateSession(c.Request.Context(), userID(c), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// DeleteSession handles DELETE /v1/chat/sessions/:id
// @Summary Delete a chat session and its messages
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Chat session ID"
// @Success 200 {object} responses.DeletedResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/chat/sessions/{id} [delete]
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteSession(c.Request.Context(), userID(c), id); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DeletedResponse{ID: id, Deleted: true})
}

// Messages handles GET /v1/chat/sessions/:id/messages
// @Summary Fetch the messages of a chat session
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Chat session ID"
// @Param after_id query int false "Return messages with a greater id"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} message.FetchResult
// @Router /v1/chat/sessions/{id}/messages [get]
func (h *ChatHandler) Messages(c *gin.Context) {
	var q requests.MessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid query: "+err.Error())
		return
	}
	result, err := h.service.Messages(c.Request.Context(), userID(c), c.Param("id"),
		message.Page{AfterID: q.AfterID, Limit: q.Limit})
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Complete handles POST /v1/chat/completion
// @Summary Send a message and get the agent reply
// @Description With stream=true the reply is sent as SSE: delta events, the final result, then [DONE].
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param request body chat.CompletionParams true "Completion"
// @Success 200 {object} chat.CompletionResult
// @Failure 422 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Router /v1/chat/completion [post]
func (h *ChatHandler) Complete(c *gin.Context) {
	var req chat.CompletionParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}

	if !req.Stream {
		result, err := h.service.Complete(c.Request.Context(), userID(c), req, nil)
		if err != nil {
			responses.HandleError(c, err, h.log)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	var (
		flusher http.Flusher
		started bool
	)
	// headers are committed on the first delta so early failures still get a JSON error
	begin := func() error {
		if started {
			return nil
		}
		f, ok := middlewares.PrepareSSE(c)
		if !ok {
			return fmt.Errorf("streaming unsupported")
		}
		c.Status(http.StatusOK)
		flusher, started = f, true
		return nil
	}

	result, err := h.service.Complete(c.Request.Context(), userID(c), req, func(delta string) error {
		if err := begin(); err != nil {
			return err
		}
		return writeSSEData(c, flusher, DeltaEvent{Delta: delta})
	})
	if err != nil {
		if !started {
			responses.HandleError(c, err, h.log)
			return
		}
		h.log.Warn().Err(err).Msg("chat stream failed")
		detail := platformerrors.HTTPErrorDetail{Message: err.Error(), Type: "stream_error"}
		if pe := platformerrors.GetPlatformError(err); pe != nil {
			detail = platformerrors.HTTPErrorDetail{Message: pe.Message, Type: platformerrors.ErrorTypeToString(pe.Type), Code: pe.UUID}
		}
		_ = writeSSEData(c, flusher, platformerrors.HTTPErrorResponse{Error: &detail})
		writeSSEDone(c, flusher)
		return
	}

	if err := begin(); err != nil {
		c.JSON(http.StatusOK, result)
		return
	}
	if err := writeSSEData(c, flusher, result); err != nil {
		h.log.Debug().Err(err).Msg("write final chat event")
		return
	}
	writeSSEDone(c, flusher)
}

func writeSSEData(c *gin.Context, flusher http.Flusher, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := c.Writer.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func writeSSEDone(c *gin.Context, flusher http.Flusher) {
	_, _ = c.Writer.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}
