package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/SscSPs/momo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.PUT("/:id", h.updateUser)    // Own only
		users.DELETE("/:id", h.deleteUser) // Own only
	}
}

// listUsers godoc
// @Summary List users
// @Description Retrieves registered users, newest first
// @Tags users
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} dto.MessageResponse "Failed to list users"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Debug("Users listed", slog.Int("count", len(users)), slog.Int("limit", params.Limit), slog.Int("offset", params.Offset))
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// updateUser godoc
// @Summary Update a user
// @Description Updates any subset of the caller's names, phone and PIN
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID to update"
// @Param   user body dto.UpdateUserRequest true "User details to update"
// @Success 200 {object} dto.UserUpdatedResponse
// @Failure 400 {object} dto.MessageResponse "Malformed request"
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 403 {object} dto.MessageResponse "Forbidden"
// @Failure 404 {object} dto.MessageResponse "User not found"
// @Failure 409 {object} dto.MessageResponse "Phone already taken"
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} dto.MessageResponse "Failed to update user"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	userID := c.Param("id")
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Unauthenticated."})
		return
	}

	updatedUser, err := h.userService.UpdateUser(c.Request.Context(), userID, req, loggedInUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserUpdatedResponse{
		Message: "User updated successfully",
		User:    dto.ToUserResponse(updatedUser),
	})
}

// deleteUser godoc
// @Summary Delete a user
// @Description Soft-deletes the caller's account and revokes all of its tokens
// @Tags users
// @Produce  json
// @Param   id path string true "User ID to delete"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse "Unauthorized"
// @Failure 403 {object} dto.MessageResponse "Forbidden"
// @Failure 404 {object} dto.MessageResponse "User not found"
// @Failure 500 {object} dto.MessageResponse "Failed to delete user"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	userID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Unauthenticated."})
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID, loggedInUserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}
