package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDValidator rejects requests whose named path parameter is not a
// valid UUID before the handler runs.
// Usage: router.GET("/projects/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "parameter " + paramName + " is required",
			})
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "parameter " + paramName + " must be a valid UUID",
			})
			return
		}

		c.Next()
	}
}
