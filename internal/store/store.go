// Package store persists tasks and notifications. Three implementations
// share one contract: in-memory (tests, default), SQLite (single node), and
// Postgres. The open-task fingerprint check and insert are atomic in all
// three.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"monitoring-service/internal/models"
)

// ErrNotFound is returned when a task or notification does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned for status updates a task cannot take.
var ErrInvalidTransition = errors.New("invalid status transition")

// CreateTaskInput carries the fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	AssetType   string
	AssetID     string
	BuildingID  string
	ActionType  models.ActionType
	Priority    models.Priority
	SLAHours    int
}

// TaskFilter narrows ListTasks. Filters are conjunctive; Limit truncates
// after sorting by created_at descending.
type TaskFilter struct {
	BuildingID string
	Status     models.TaskStatus
	Limit      int
}

// NotificationFilter narrows ListNotifications.
type NotificationFilter struct {
	BuildingID string
	UnreadOnly bool
	Limit      int
}

// Store is the persistence contract for tasks and notifications.
//
// CreateTask is an idempotent create: when an OPEN task with the same
// fingerprint (case-insensitive title, asset_id, building_id) exists, the
// existing task is returned unchanged and the bool is false.
type Store interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (models.Task, bool, error)
	GetTask(ctx context.Context, taskID string) (models.Task, error)
	ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus, notes string) (models.Task, error)

	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	ListNotifications(ctx context.Context, f NotificationFilter) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	Close() error
}

// NewID builds an id like TASK_3FA85F64: prefix plus the first eight hex
// digits of a fresh UUID, upper-cased.
func NewID(prefix string) string {
	u := uuid.New()
	return fmt.Sprintf("%s_%X", prefix, u[:4])
}

func checkTransition(from, to models.TaskStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from.Terminal() {
		return fmt.Errorf("%w: task is %s", ErrInvalidTransition, from)
	}
	return nil
}
