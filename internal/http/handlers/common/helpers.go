package common

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flastal/flastal-backend/internal/http/middleware"
	"github.com/flastal/flastal-backend/internal/models"
)

// ErrNoActor is returned when no authenticated actor is in the context.
var ErrNoActor = errors.New("no authenticated actor in context")

// CurrentActor extracts the authenticated actor from the gin context.
func CurrentActor(c *gin.Context) (models.Actor, error) {
	raw, exists := c.Get(middleware.ContextActorKey)
	if !exists {
		return models.Actor{}, ErrNoActor
	}
	actor, ok := raw.(models.Actor)
	if !ok {
		return models.Actor{}, ErrNoActor
	}
	return actor, nil
}

// ActorOrGuest returns the actor when authenticated, or the guest actor
// for anonymous requests behind OptionalAuth.
func ActorOrGuest(c *gin.Context) models.Actor {
	actor, err := CurrentActor(c)
	if err != nil {
		return models.Actor{Role: models.RoleGuest}
	}
	return actor
}

// ParseUUIDParam parses a UUID path parameter.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("parameter %s is missing", paramName)
	}
	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parameter %s is not a valid UUID", paramName)
	}
	return parsed, nil
}

// Pagination reads limit/offset query parameters with defaults.
func Pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
