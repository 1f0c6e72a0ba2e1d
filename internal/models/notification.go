package models

import "time"

// Notification is an alert record created as a side effect of task creation.
// Append-only except for Read flips.
type Notification struct {
	ID            string    `json:"notification_id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Severity      string    `json:"severity"`
	BuildingID    string    `json:"building_id"`
	RelatedTaskID string    `json:"related_task_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Read          bool      `json:"read"`
}
