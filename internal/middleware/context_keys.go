package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for values this package stores in a
// context.Context. Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	tokenIDKey   = contextKey("tokenID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromCtx(c.Request.Context(), userIDKey)
}

// GetTokenIDFromContext retrieves the ID of the bearer token used for the request.
func GetTokenIDFromContext(c *gin.Context) (string, bool) {
	return stringFromCtx(c.Request.Context(), tokenIDKey)
}

// WithUserID returns a copy of ctx carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTokenID returns a copy of ctx carrying the bearer token's ID.
func WithTokenID(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

func stringFromCtx(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
