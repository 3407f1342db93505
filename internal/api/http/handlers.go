package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/webpilot/backend/internal/domain/task"
	"github.com/webpilot/backend/internal/infrastructure/monitoring"
	"github.com/webpilot/backend/internal/infrastructure/webclient"
	"github.com/webpilot/backend/internal/service"
	"github.com/webpilot/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	tasks    *task.Manager
	client   *webclient.Client
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, tasks *task.Manager, client *webclient.Client, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		registry: registry,
		tasks:    tasks,
		client:   client,
		metrics:  metrics,
	}
}

// Root handles the banner endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "WebPilot Backend",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
		"active_tasks":     h.tasks.Count(),
		"web_client": gin.H{
			"breaker_state": h.client.BreakerState().String(),
		},
	})
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	services := h.registry.List(category)
	stats := h.registry.Stats()

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    stats,
	})
}

// DiscoverServices finds relevant services for a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	services := h.registry.Discover(req.Query, 5)

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Query,
		"services": services,
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var appCtx *types.Context
	if req.TaskID != nil {
		appCtx = &types.Context{TaskID: req.TaskID}
	}

	var timer *monitoring.Timer
	if h.metrics != nil {
		timer = monitoring.NewTimer(h.metrics, serviceOf(req.ToolID), req.ToolID)
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		if timer != nil {
			timer.Stop("error")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if timer != nil {
		status := "success"
		if !result.Success {
			status = "error"
		}
		timer.Stop(status)
	}

	c.JSON(http.StatusOK, result)
}

// serviceOf extracts the service label from a "service.tool" ID.
func serviceOf(toolID string) string {
	return strings.SplitN(toolID, ".", 2)[0]
}

// MetricsJSON reports the metrics snapshot for dashboards
func (h *Handlers) MetricsJSON(c *gin.Context) {
	snapshot := h.metrics.GetSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"total_requests":    snapshot.TotalRequests,
		"total_errors":      snapshot.TotalErrors,
		"total_validations": snapshot.TotalValidations,
		"total_rejections":  snapshot.TotalRejections,
		"active_intents":    snapshot.ActiveIntents,
	})
}
