package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/auth"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// AuthHandler registers accounts and issues access tokens.
type AuthHandler struct {
	users  user.Service
	issuer *auth.Issuer
	log    zerolog.Logger
}

func NewAuthHandler(users user.Service, issuer *auth.Issuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		issuer: issuer,
		log:    log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /v1/auth/register
// @Summary Register an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body user.RegisterParams true "Account"
// @Success 201 {object} user.User
// @Failure 403 {object} responses.ErrorResponse "invalid invitation code"
// @Failure 409 {object} responses.ErrorResponse "username taken"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body: "+err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Token handles POST /v1/auth/token
// @Summary Exchange credentials for an access token
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} responses.TokenResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req requests.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "username and password are required")
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		responses.HandleError(c, err, h.log)
		return
	}
	token, err := h.issuer.Issue(u.ID, u.Username)
	if err != nil {
		responses.HandleError(c, platformerrors.AsError(c.Request.Context(), platformerrors.LayerHandler, err, "issue token"), h.log)
		return
	}
	c.JSON(http.StatusOK, responses.TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.issuer.TTL().Seconds()),
		UserID:      u.ID,
		Username:    u.Username,
	})
}

// Status handles GET /v1/auth/status
// @Summary Describe the caller
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.AuthStatusResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /v1/auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		// authentication is disabled
		c.JSON(http.StatusOK, responses.AuthStatusResponse{Authenticated: false, UserID: userID(c)})
		return
	}
	resp := responses.AuthStatusResponse{Authenticated: true, UserID: p.UserID, Username: p.Username}
	if !p.ExpiresAt.IsZero() {
		expires := p.ExpiresAt
		resp.ExpiresAt = &expires
	}
	c.JSON(http.StatusOK, resp)
}
