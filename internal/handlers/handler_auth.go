package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/SscSPs/momo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration, login and logout.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{
		userService:  us,
		tokenService: ts,
	}
}

// registerAuthRoutes mounts the public auth routes behind the auth rate
// limiter and logout behind authentication.
func registerAuthRoutes(public, protected *gin.RouterGroup, services *portssvc.ServiceContainer, authLimit gin.HandlerFunc) {
	h := newAuthHandler(services.User, services.Token)

	public.POST("/register", authLimit, h.register)
	public.POST("/login", authLimit, h.login)
	protected.POST("/logout", h.logout)
}

// register godoc
// @Summary Register new user
// @Description Opens an account with a zero balance and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 409 {object} dto.MessageResponse "Phone already taken"
// @Failure 422 {object} ValidationErrorResponse
// @Failure 429 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, _, err := h.tokenService.IssueToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		User:    dto.ToUserResponse(user),
		Token:   token,
	})
}

// login godoc
// @Summary User login
// @Description Authenticates a user by phone and PIN and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 429 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Phone, req.Pin)
	if err != nil {
		respondError(c, err)
		return
	}

	token, _, err := h.tokenService.IssueToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		User:    dto.ToUserResponse(user),
		Token:   token,
	})
}

// logout godoc
// @Summary User logout
// @Description Revokes the bearer token used for this request.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /logout [post]
func (h *authHandler) logout(c *gin.Context) {
	tokenID, ok := middleware.GetTokenIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Unauthenticated."})
		return
	}

	if err := h.tokenService.RevokeToken(c.Request.Context(), tokenID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}
