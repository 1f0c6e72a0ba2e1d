// Package notify creates alert records when tasks are created and pushes
// events to connected clients. Delivery is consumed externally.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
	"monitoring-service/internal/store"
)

// Service persists notifications and broadcasts events over the hub.
type Service struct {
	store  store.Store
	hub    *Hub
	logger *logging.Logger
}

// NewService creates a notification service. hub may be nil.
func NewService(st store.Store, hub *Hub, logger *logging.Logger) *Service {
	return &Service{store: st, hub: hub, logger: logger}
}

// TankAlert records a notification for a LOW or CRITICAL tank level tied to
// the task created for it.
func (s *Service) TankAlert(ctx context.Context, status models.TankStatus, relatedTaskID string) (models.Notification, error) {
	severity := "HIGH"
	if status.LevelState == "CRITICAL" {
		severity = "CRITICAL"
	}
	n := models.Notification{
		ID:            uuid.New().String(),
		Type:          "ALERT",
		Title:         "Water tank level low",
		Message:       fmt.Sprintf("Tank %s is %s at %.1f%%. Refill scheduled.", status.TankID, status.LevelState, status.LevelPercentage),
		Severity:      severity,
		BuildingID:    status.BuildingID,
		RelatedTaskID: relatedTaskID,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	s.logger.Infof("Created notification %s for building %s (%s)", created.ID, created.BuildingID, severity)
	s.push(created.BuildingID, "notification", created)
	return created, nil
}

// TaskCreated broadcasts a task-created event to subscribers. No record is
// persisted; notifications are only stored for the defined alert conditions.
func (s *Service) TaskCreated(task models.Task) {
	s.push(task.BuildingID, "task_created", task)
}

func (s *Service) push(buildingID, event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]interface{}{"event": event, "data": payload})
	if err != nil {
		s.logger.Errorf("Failed to marshal %s event: %v", event, err)
		return
	}
	s.hub.Broadcast(buildingID, msg)
}
