package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sillysavant/f1nance/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogsHandler receives log batches beaconed from the browser and appends
// them to a rotated file next to the gateway's own logs.
type LogsHandler struct {
	sink *lumberjack.Logger
	mu   sync.Mutex
}

type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

type LogBatchRequest struct {
	Logs []LogEntry `json:"logs" binding:"required,max=100,dive"`
}

func NewLogsHandler(logDir string) *LogsHandler {
	return &LogsHandler{
		sink: &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "frontend.log"),
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		},
	}
}

// ReceiveFrontendLogs handles POST /logs.
func (h *LogsHandler) ReceiveFrontendLogs(c *gin.Context) {
	var req LogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(req.Logs) == 0 {
		respondError(c, http.StatusBadRequest, "No logs provided", nil)
		return
	}

	if err := h.writeLogs(req.Logs); err != nil {
		logger.Error("Failed to write frontend logs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to write logs", err)
		return
	}

	logger.Debug("Received frontend logs", zap.Int("count", len(req.Logs)))
	c.JSON(http.StatusOK, gin.H{"success": true, "received": len(req.Logs)})
}

func (h *LogsHandler) writeLogs(logs []LogEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	encoder := json.NewEncoder(h.sink)
	for _, entry := range logs {
		// Reshaped to match the gateway's own zap output.
		line := map[string]interface{}{
			"ts":      entry.Timestamp,
			"level":   entry.Level,
			"msg":     entry.Message,
			"service": "browser",
		}
		for k, v := range entry.Context {
			line[k] = v
		}

		if err := encoder.Encode(line); err != nil {
			return err
		}
	}

	return nil
}
