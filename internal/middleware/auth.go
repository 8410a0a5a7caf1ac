package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

const unauthenticatedMessage = "Unauthenticated."

// AuthMiddleware creates a Gin middleware handler that accepts only bearer
// tokens with a live session record.
func AuthMiddleware(tokens portssvc.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthenticatedMessage})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthenticatedMessage})
			return
		}

		session, err := tokens.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthenticatedMessage})
			return
		}

		ctx := WithUserID(c.Request.Context(), session.UserID)
		ctx = WithTokenID(ctx, session.TokenID)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", session.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
