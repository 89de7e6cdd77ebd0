package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/service"
)

// ContextActorKey is the gin.Context key holding the authenticated actor.
const ContextActorKey = "actor"

// AuthMiddleware requires a valid Bearer access token and stores the
// actor in the request context.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromHeader(c, tokens)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(ContextActorKey, *actor)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present and lets
// anonymous requests through as guests. Pledging uses this: fans are
// debited from their balance, guests pledge by name and email.
func OptionalAuth(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromHeader(c, tokens); ok {
			c.Set(ContextActorKey, *actor)
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles past. It must run after
// AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextActorKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		actor, ok := raw.(models.Actor)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

func actorFromHeader(c *gin.Context, tokens *service.TokenManager) (*models.Actor, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return nil, false
	}
	actor, err := tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
	if err != nil {
		return nil, false
	}
	return actor, true
}
