package models

import "time"

// Task is a persisted work order derived from an action decision or a tank
// level check. At most one OPEN task may exist per (title, asset_id,
// building_id) fingerprint; title comparison is case-insensitive.
type Task struct {
	TaskID      string     `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssetType   string     `json:"asset_type"`
	AssetID     string     `json:"asset_id"`
	BuildingID  string     `json:"building_id"`
	ActionType  ActionType `json:"action_type,omitempty"`
	Priority    Priority   `json:"priority"`
	SLAHours    int        `json:"sla_hours"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Notes       string     `json:"notes,omitempty"`
}
