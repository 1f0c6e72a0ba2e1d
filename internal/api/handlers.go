package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"monitoring-service/internal/assets"
	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
	"monitoring-service/internal/notify"
	"monitoring-service/internal/registry"
	"monitoring-service/internal/store"
	"monitoring-service/internal/workflow"
)

// Handler holds the dependencies of the HTTP surface.
type Handler struct {
	store  store.Store
	orch   *workflow.Orchestrator
	reg    *registry.Registry
	hub    *notify.Hub
	cache  *assets.Cache
	logger *logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(st store.Store, orch *workflow.Orchestrator, reg *registry.Registry, hub *notify.Hub, cache *assets.Cache, logger *logging.Logger) *Handler {
	return &Handler{store: st, orch: orch, reg: reg, hub: hub, cache: cache, logger: logger}
}

type taskCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssetType   string `json:"asset_type"`
	AssetID     string `json:"asset_id" binding:"required"`
	BuildingID  string `json:"building_id" binding:"required"`
	ActionType  string `json:"action_type"`
	Priority    string `json:"priority"`
	SLAHours    int    `json:"sla_hours"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for task: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	priority := models.Priority(req.Priority)
	if !priority.Valid() {
		priority = models.PriorityMedium
	}
	if req.AssetType == "" {
		req.AssetType = "water"
	}
	if req.SLAHours <= 0 {
		req.SLAHours = 24
	}

	task, created, err := h.store.CreateTask(c.Request.Context(), store.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssetType:   req.AssetType,
		AssetID:     req.AssetID,
		BuildingID:  req.BuildingID,
		ActionType:  models.ActionType(req.ActionType),
		Priority:    priority,
		SLAHours:    req.SLAHours,
	})
	if err != nil {
		h.logger.Errorf("Failed to create task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if created {
		h.logger.Infof("Created task: %s", task.TaskID)
		c.JSON(http.StatusCreated, task)
		return
	}
	// Idempotent create: an OPEN task with this fingerprint already exists.
	c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	tasks, err := h.store.ListTasks(c.Request.Context(), store.TaskFilter{
		BuildingID: c.Query("building_id"),
		Status:     models.TaskStatus(c.Query("status")),
		Limit:      limit,
	})
	if err != nil {
		h.logger.Errorf("Failed to list tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	id := c.Param("id")
	task, err := h.store.GetTask(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to get task %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

type taskUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.store.UpdateTaskStatus(c.Request.Context(), id, models.TaskStatus(req.Status), req.Notes)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, store.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Errorf("Failed to update task %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
	default:
		h.logger.Infof("Task %s transitioned to %s", id, task.Status)
		c.JSON(http.StatusOK, task)
	}
}

func (h *Handler) ListNotifications(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	notifications, err := h.store.ListNotifications(c.Request.Context(), store.NotificationFilter{
		BuildingID: c.Query("building_id"),
		UnreadOnly: c.Query("unread_only") == "true",
		Limit:      limit,
	})
	if err != nil {
		h.logger.Errorf("Failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	err := h.store.MarkNotificationRead(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to mark notification %s read: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

func (h *Handler) ListTechnicians(c *gin.Context) {
	c.JSON(http.StatusOK, h.reg.List())
}

type technicianUpdateRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// UpdateTechnician flips availability; this is the operational recovery path
// after a technician hits capacity.
func (h *Handler) UpdateTechnician(c *gin.Context) {
	id := c.Param("id")
	var req technicianUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.reg.SetAvailable(id, *req.Available); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Technician not found"})
		return
	}
	tech, _ := h.reg.Get(id)
	h.logger.Infof("Technician %s availability set to %t", id, *req.Available)
	c.JSON(http.StatusOK, tech)
}

type assetInfo struct {
	AssetID    string `json:"asset_id"`
	AssetType  string `json:"asset_type"`
	BuildingID string `json:"building_id"`
	SiteID     string `json:"site_id"`
}

// ListAssets enumerates the monitored assets of every configured site.
func (h *Handler) ListAssets(c *gin.Context) {
	buildingFilter := c.Query("building_id")
	out := []assetInfo{}
	for _, site := range h.orch.Sites().Sites {
		for _, b := range site.Buildings {
			if buildingFilter != "" && b.ID != buildingFilter {
				continue
			}
			for _, pumpID := range b.Pumps {
				out = append(out, assetInfo{AssetID: pumpID, AssetType: "pump", BuildingID: b.ID, SiteID: site.ID})
			}
			if b.Tank != "" {
				out = append(out, assetInfo{AssetID: b.Tank, AssetType: "tank", BuildingID: b.ID, SiteID: site.ID})
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

// ListAssetReadings returns the latest cached reading per metric for an
// asset. An asset with no readings yet yields an empty list.
func (h *Handler) ListAssetReadings(c *gin.Context) {
	readings := h.cache.Readings(c.Param("asset_id"))
	if readings == nil {
		readings = []assets.Reading{}
	}
	c.JSON(http.StatusOK, readings)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Assignments())
}

func (h *Handler) RunRouting(c *gin.Context) {
	assignments, err := h.orch.RouteOpenTasks(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Routing run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Routing run failed"})
		return
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *Handler) RunSiteSweep(c *gin.Context) {
	siteID := c.Param("site_id")
	summary, err := h.orch.RunSiteSweep(c.Request.Context(), siteID)
	if err != nil {
		h.logger.Errorf("Site sweep failed for %s: %v", siteID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) RunWaterSupervisor(c *gin.Context) {
	buildingID := c.Param("building_id")
	result, err := h.orch.RunWaterSupervisor(c.Request.Context(), buildingID)
	if err != nil {
		h.logger.Errorf("Water supervisor failed for %s: %v", buildingID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
