package http

import (
	"net/http"

	"github.com/GriffinCanCode/jsexec/internal/api/middleware"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/jsexec/internal/service"
	"github.com/GriffinCanCode/jsexec/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsFunc reports component statistics for the health endpoint
type StatsFunc func() map[string]interface{}

// Handlers contains all HTTP handlers
type Handlers struct {
	registry    *service.Registry
	metrics     *monitoring.Metrics
	engineStats StatsFunc
	logger      *logging.Logger
	version     string
}

// NewHandlers creates a new handler set. metrics and engineStats may be nil.
func NewHandlers(registry *service.Registry, metrics *monitoring.Metrics, engineStats StatsFunc, logger *logging.Logger, version string) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		registry:    registry,
		metrics:     metrics,
		engineStats: engineStats,
		logger:      logger,
		version:     version,
	}
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"status":  "online",
		"service": "jsexec",
		"version": h.version,
	})
}

// Health reports component statistics
func (h *Handlers) Health(c *gin.Context) {
	engine := map[string]interface{}{}
	if h.engineStats != nil {
		engine = h.engineStats()
	}

	writeJSON(c, http.StatusOK, gin.H{
		"status":     "healthy",
		"tools":      h.registry.Stats(),
		"engine":     engine,
		"executions": h.metrics.Snapshot(),
	})
}

// ListTools lists tool definitions
func (h *Handlers) ListTools(c *gin.Context) {
	tools := h.registry.List()
	writeJSON(c, http.StatusOK, gin.H{
		"tools": tools,
		"count": len(tools),
	})
}

// CallTool invokes a tool by name
func (h *Handlers) CallTool(c *gin.Context) {
	var req types.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeToolError(c, service.MalformedRequest(err))
		return
	}

	result, toolErr := h.registry.Call(c.Request.Context(), req.Name, req.Arguments)
	if toolErr != nil {
		h.logger.Debug("tool call failed",
			zap.String("tool", req.Name),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.Int("code", int(toolErr.Code)),
		)
		writeToolError(c, toolErr)
		return
	}

	writeJSON(c, http.StatusOK, result)
}
