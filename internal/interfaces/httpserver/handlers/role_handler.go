package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// RoleHandler exposes role administration.
type RoleHandler struct {
	service role.Service
	log     zerolog.Logger
}

func NewRoleHandler(service role.Service, log zerolog.Logger) *RoleHandler {
	return &RoleHandler{
		service: service,
		log:     log.With().Str("handler", "role").Logger(),
	}
}

// List handles GET /v1/roles
// @Summary List roles
// @Tags Roles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.ListResponse[role.Role]
// @Router /v1/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.service.List(c.Request.Context(), userID(c))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewList(roles))
}

// Create handles POST /v1/roles
// @Summary Create a role
// @Tags Roles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body role.CreateParams true "Role"
// @Success 201 {object} role.Role
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req role.CreateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	r, err := h.service.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Get handles GET /v1/roles/:id
// @Summary Get a role
// @Tags Roles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} role.Role
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	r, err := h.service.GetForUser(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Update handles PATCH /v1/roles/:id
// @Summary Update a role
// @Tags Roles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body role.UpdateParams true "Fields to change"
// @Success 200 {object} role.Role
// @Failure 404 {object} responses.ErrorResponse
// @Failure 422 {object} responses.ErrorResponse
// @Router /v1/roles/{id} [patch]
func (h *RoleHandler) Update(c *gin.Context) {
	var req role.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	r, err := h.service.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /v1/roles/:id
// @Summary Delete a role
// @Description Fails with 409 while a room lists the role as participant.
// @Tags Roles
// @Security BearerAuth
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} responses.DeletedResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /v1/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), userID(c), id); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.DeletedResponse{ID: id, Deleted: true})
}
