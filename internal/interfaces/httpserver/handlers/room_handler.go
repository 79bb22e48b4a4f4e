package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// RoomHandler exposes the Room Store, the room lifecycle and the room transcript.
type RoomHandler struct {
	rooms    room.Service
	sessions session.Manager
	messages message.Service
	log      zerolog.Logger
}

func NewRoomHandler(rooms room.Service, sessions session.Manager, messages message.Service, log zerolog.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		sessions: sessions,
		messages: messages,
		log:      log.With().Str("handler", "room").Logger(),
	}
}

// List handles GET /v1/rooms
// @Summary List rooms
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.ListResponse[room.Room]
// @Router /v1/rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context(), userID(c))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewList(rooms))
}

// Create handles POST /v1/rooms
// @Summary Create a room
// @Tags Rooms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body room.CreateParams true "Room"
// @Success 201 {object} room.Room
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req room.CreateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	r, err := h.rooms.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Get handles GET /v1/rooms/:id
// @Summary Get a room
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} room.Room
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	r, err := h.rooms.GetForUser(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Update handles PATCH /v1/rooms/:id
// @Summary Update a room
// @Description Rejected with 409 while the room is running. Participants only change while no session is open.
// @Tags Rooms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body room.UpdateParams true "Fields to change"
// @Success 200 {object} room.Room
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id} [patch]
func (h *RoomHandler) Update(c *gin.Context) {
	var req room.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	r, err := h.rooms.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /v1/rooms/:id
// @Summary Delete a room
// @Description Halts generation, disconnects subscribers and removes every session and message of the room.
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} responses.DeletedResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.rooms.Delete(c.Request.Context(), userID(c), id); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DeletedResponse{ID: id, Deleted: true})
}

// Join handles POST /v1/rooms/:id/join
// @Summary Add a role to a room
// @Tags Rooms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body requests.JoinRoomRequest true "Role to add"
// @Success 200 {object} room.Room
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/join [post]
func (h *RoomHandler) Join(c *gin.Context) {
	var req requests.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "role_id is required")
		return
	}
	r, err := h.sessions.Join(c.Request.Context(), userID(c), c.Param("id"), req.RoleID)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Start handles POST /v1/rooms/:id/start
// @Summary Start or resume a room
// @Description From idle or finished a new session begins. A stopped room resumes its open session.
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} room.Room
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/start [post]
func (h *RoomHandler) Start(c *gin.Context) {
	h.lifecycle(c, h.sessions.Start)
}

// Stop handles POST /v1/rooms/:id/stop
// @Summary Pause a running room
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} room.Room
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/stop [post]
func (h *RoomHandler) Stop(c *gin.Context) {
	h.lifecycle(c, h.sessions.Stop)
}

// Restart handles POST /v1/rooms/:id/restart
// @Summary Restart a room with a new session
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} room.Room
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/restart [post]
func (h *RoomHandler) Restart(c *gin.Context) {
	h.lifecycle(c, h.sessions.Restart)
}

// Finish handles POST /v1/rooms/:id/finish
// @Summary Finish the current session of a room
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} room.Room
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/finish [post]
func (h *RoomHandler) Finish(c *gin.Context) {
	h.lifecycle(c, h.sessions.Finish)
}

func (h *RoomHandler) lifecycle(c *gin.Context, op func(ctx context.Context, userID, roomID string) (*room.Room, error)) {
	r, err := op(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Sessions handles GET /v1/rooms/:id/sessions
// @Summary List the sessions of a room
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} responses.ListResponse[session.Session]
// @Router /v1/rooms/{id}/sessions [get]
func (h *RoomHandler) Sessions(c *gin.Context) {
	sessions, err := h.sessions.ListSessions(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewList(sessions))
}

// Messages handles GET /v1/rooms/:id/messages
// @Summary Fetch a session transcript
// @Description Without session_id the current session is returned. Messages are ordered by ascending id.
// @Tags Rooms
// @Security BearerAuth
// @Produce json
// @Param id path string true "Room ID"
// @Param session_id query string false "Session ID"
// @Param after_id query int false "Return messages with a greater id"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} message.FetchResult
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/messages [get]
func (h *RoomHandler) Messages(c *gin.Context) {
	var q requests.MessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid query: "+err.Error())
		return
	}
	result, err := h.messages.Fetch(c.Request.Context(), userID(c), c.Param("id"), q.SessionID,
		message.Page{AfterID: q.AfterID, Limit: q.Limit})
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostMessage handles POST /v1/rooms/:id/messages
// @Summary Post a user message into the current session
// @Tags Rooms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body requests.PostMessageRequest true "Message"
// @Success 201 {object} message.Message
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/rooms/{id}/messages [post]
func (h *RoomHandler) PostMessage(c *gin.Context) {
	var req requests.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "content is required")
		return
	}
	m, err := h.messages.PostUserMessage(c.Request.Context(), userID(c), displayName(c), c.Param("id"), req.Content)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, m)
}
