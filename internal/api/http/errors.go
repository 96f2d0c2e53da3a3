package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/command"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/store"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/translator"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var notFound *window.NotFoundError
	switch {
	case errors.As(err, &notFound), errors.Is(err, store.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, intent.ErrMalformedIntent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, command.ErrEmptyCommand), errors.Is(err, command.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, translator.ErrTranslatorUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...} with the mapped status. Server-side
// failures are logged and their detail is not echoed.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
