package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/projlens/projlens-backend/internal/apperr"
	"github.com/projlens/projlens-backend/internal/logging"
)

// ErrorResponse is the uniform error body. Internal details never leak;
// the errorId correlates the response with the server-side log entry.
type ErrorResponse struct {
	ErrorID    string `json:"errorId"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Errors is the single point where failures become HTTP responses.
// Handlers and middleware push errors via c.Error; panics are recovered
// here as well.
func Errors(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				render(c, log, fmt.Errorf("panic: %v", r), true)
			}
		}()

		c.Next()

		if last := c.Errors.Last(); last != nil {
			render(c, log, last.Err, false)
		}
	}
}

func render(c *gin.Context, log *zap.Logger, err error, panicked bool) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var ae *apperr.Error
	var pqErr *pq.Error
	switch {
	case panicked:
		// message stays generic
	case errors.As(err, &ae):
		status = ae.Status()
		message = ae.Error()
	case errors.As(err, &pqErr):
		message = "Unknown error in database"
	default:
		message = err.Error()
	}

	errorID := logging.ErrorID(log, err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		ErrorID:    errorID,
		Error:      message,
		StatusCode: status,
	})
}
