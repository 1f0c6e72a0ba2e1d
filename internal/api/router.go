package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"monitoring-service/internal/config"
	"monitoring-service/internal/logging"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		// Tasks
		api.GET("/tasks", h.ListTasks)
		api.POST("/tasks", h.CreateTask)
		api.GET("/tasks/:id", h.GetTask)
		api.PATCH("/tasks/:id", h.UpdateTask)

		// Notifications
		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)

		// Technicians
		api.GET("/technicians", h.ListTechnicians)
		api.PATCH("/technicians/:id", h.UpdateTechnician)

		// Assets and sensor readings
		api.GET("/assets", h.ListAssets)
		api.GET("/assets/:asset_id/readings", h.ListAssetReadings)

		// Routing and assignments
		api.GET("/assignments", h.ListAssignments)
		api.POST("/routing/run", h.RunRouting)

		// Orchestration
		api.POST("/sites/:site_id/run", h.RunSiteSweep)
		api.POST("/water/:building_id/run", h.RunWaterSupervisor)

		// Live notifications
		api.GET("/ws", h.WebSocket)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
