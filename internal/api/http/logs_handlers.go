package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxShellLogEntries bounds one POST /logs batch
const maxShellLogEntries = 100

// ShellLogEntry is one log line from the browser desktop shell
type ShellLogEntry struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message" binding:"required"`
	Context map[string]interface{} `json:"context"`
	Window  string                 `json:"window_id"`
}

// ShellLogRequest is a batch of shell log lines
type ShellLogRequest struct {
	Entries []ShellLogEntry `json:"entries" binding:"required,dive"`
}

// StreamLogs writes shell log lines into the server log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req ShellLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if len(req.Entries) == 0 {
		badRequest(c, fmt.Errorf("no log entries provided"))
		return
	}
	if len(req.Entries) > maxShellLogEntries {
		badRequest(c, fmt.Errorf("at most %d log entries per request", maxShellLogEntries))
		return
	}

	logger := h.logger.Named("shell")
	for _, entry := range req.Entries {
		logShellEntry(logger, entry)
	}

	c.JSON(http.StatusOK, gin.H{"accepted": len(req.Entries)})
}

func logShellEntry(logger *zap.Logger, entry ShellLogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+1)
	if entry.Window != "" {
		fields = append(fields, zap.String("window_id", entry.Window))
	}
	for key, value := range entry.Context {
		switch v := value.(type) {
		case string:
			fields = append(fields, zap.String(key, v))
		case float64:
			fields = append(fields, zap.Float64(key, v))
		case bool:
			fields = append(fields, zap.Bool(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}

	switch entry.Level {
	case "error":
		logger.Error(entry.Message, fields...)
	case "warn":
		logger.Warn(entry.Message, fields...)
	case "debug", "verbose":
		logger.Debug(entry.Message, fields...)
	default:
		logger.Info(entry.Message, fields...)
	}
}
