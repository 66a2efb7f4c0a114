package middleware

import (
	"net/http"
	"strings"

	"foodgram-backend/identity"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
)

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		claims, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		attach(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller when a valid token is present
// and otherwise lets the request through as anonymous.
func OptionalAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractToken(c.GetHeader("Authorization")); raw != "" {
			if claims, err := tokens.Validate(raw); err == nil {
				attach(c, claims)
			}
		}
		c.Next()
	}
}

func attach(c *gin.Context, claims *utils.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextIsAdmin, claims.IsAdmin)
	ctx := identity.WithRequester(c.Request.Context(), identity.Requester{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
	c.Request = c.Request.WithContext(ctx)
}

// extractToken accepts both "Token <t>" and "Bearer <t>".
func extractToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(token)
	default:
		return ""
	}
}
