package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      apperrors.Kind    `json:"code"`
	Retryable bool              `json:"retryable"`
	Fields    map[string]string `json:"fields,omitempty"`
	Raw       string            `json:"raw,omitempty"`
}

// NewErrorResponse converts err into a status code and response body.
// Errors outside the taxonomy are reported without their details.
func NewErrorResponse(err error) (int, ErrorResponse) {
	status := apperrors.HTTPStatus(err)

	appErr, ok := apperrors.As(err)
	if !ok {
		return status, ErrorResponse{Error: "internal server error", Code: "internal"}
	}

	resp := ErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Kind,
		Retryable: appErr.Retryable(),
		Fields:    appErr.Fields,
		Raw:       appErr.Raw,
	}
	if appErr.Kind == apperrors.KindStorage {
		resp.Error = "storage unavailable"
	}
	return status, resp
}

// ErrorHandler renders the last error attached by a handler
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := NewErrorResponse(err)
		if status >= 500 {
			log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// abortWithError stops the chain and renders err immediately
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := NewErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
