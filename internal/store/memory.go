package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"monitoring-service/internal/models"
)

// Memory is a mutex-guarded in-memory Store. It is the default backend when
// neither DB_DSN nor DB_PATH is configured, and the fixture store in tests.
type Memory struct {
	mu            sync.Mutex
	tasks         []models.Task
	notifications []models.Notification
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CreateTask(_ context.Context, in CreateTaskInput) (models.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check-then-insert under one lock: the dedup invariant is a
	// compare-and-set, not a plain insert.
	for i := range m.tasks {
		t := &m.tasks[i]
		if t.Status == models.TaskOpen &&
			strings.EqualFold(t.Title, in.Title) &&
			t.AssetID == in.AssetID &&
			t.BuildingID == in.BuildingID {
			return *t, false, nil
		}
	}

	now := time.Now().UTC()
	task := models.Task{
		TaskID:      NewID("TASK"),
		Title:       in.Title,
		Description: in.Description,
		AssetType:   in.AssetType,
		AssetID:     in.AssetID,
		BuildingID:  in.BuildingID,
		ActionType:  in.ActionType,
		Priority:    in.Priority,
		SLAHours:    in.SLAHours,
		Status:      models.TaskOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.tasks = append(m.tasks, task)
	return task, true, nil
}

func (m *Memory) GetTask(_ context.Context, taskID string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.TaskID == taskID {
			return t, nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (m *Memory) ListTasks(_ context.Context, f TaskFilter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if f.BuildingID != "" && t.BuildingID != f.BuildingID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *Memory) UpdateTaskStatus(_ context.Context, taskID string, status models.TaskStatus, notes string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		t := &m.tasks[i]
		if t.TaskID != taskID {
			continue
		}
		if err := checkTransition(t.Status, status); err != nil {
			return models.Task{}, err
		}
		t.Status = status
		if notes != "" {
			t.Notes = notes
		}
		t.UpdatedAt = time.Now().UTC()
		return *t, nil
	}
	return models.Task{}, ErrNotFound
}

func (m *Memory) CreateNotification(_ context.Context, n models.Notification) (models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	m.notifications = append(m.notifications, n)
	return n, nil
}

func (m *Memory) ListNotifications(_ context.Context, f NotificationFilter) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		if f.BuildingID != "" && n.BuildingID != f.BuildingID {
			continue
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *Memory) MarkNotificationRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Close() error { return nil }
