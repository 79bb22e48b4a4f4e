package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// AgentHandler exposes agent administration.
type AgentHandler struct {
	service agent.Service
	log     zerolog.Logger
}

func NewAgentHandler(service agent.Service, log zerolog.Logger) *AgentHandler {
	return &AgentHandler{
		service: service,
		log:     log.With().Str("handler", "agent").Logger(),
	}
}

// List handles GET /v1/agents
// @Summary List agents
// @Tags Agents
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.ListResponse[responses.AgentResponse]
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/agents [get]
func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.service.List(c.Request.Context(), userID(c))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewAgentList(agents))
}

// Create handles POST /v1/agents
// @Summary Create an agent
// @Tags Agents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body agent.CreateParams true "Agent"
// @Success 201 {object} responses.AgentResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	var req agent.CreateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	a, err := h.service.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, responses.NewAgentResponse(a))
}

// Get handles GET /v1/agents/:id
// @Summary Get an agent
// @Tags Agents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} responses.AgentResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/agents/{id} [get]
func (h *AgentHandler) Get(c *gin.Context) {
	a, err := h.service.GetForUser(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewAgentResponse(a))
}

// Update handles PATCH /v1/agents/:id
// @Summary Update an agent
// @Tags Agents
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body agent.UpdateParams true "Fields to change"
// @Success 200 {object} responses.AgentResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/agents/{id} [patch]
func (h *AgentHandler) Update(c *gin.Context) {
	var req agent.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	a, err := h.service.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewAgentResponse(a))
}

// Delete handles DELETE /v1/agents/:id
// @Summary Delete an agent
// @Description Fails with 409 while roles still reference the agent.
// @Tags Agents
// @Security BearerAuth
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} responses.DeletedResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/agents/{id} [delete]
func (h *AgentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), userID(c), id); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DeletedResponse{ID: id, Deleted: true})
}
