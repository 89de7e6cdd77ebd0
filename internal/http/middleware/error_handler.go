package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flastal/flastal-backend/internal/logger"
	"github.com/flastal/flastal-backend/internal/pkg/apperror"
)

// ErrorHandler turns errors attached to the gin context into JSON
// responses. Business errors surface their code and message; everything
// else is masked as a 500 and only logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("request failed")
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": appErr.Message,
				"code":  string(appErr.Code),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
			"code":  string(apperror.ErrCodeInternal),
		})
	}
}
