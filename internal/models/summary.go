package models

import "time"

// AssetDetail captures the per-asset outcome of a site sweep.
type AssetDetail struct {
	AssetID     string       `json:"asset_id"`
	RiskScore   float64      `json:"risk_score"`
	Priority    Priority     `json:"priority"`
	ActionType  ActionType   `json:"action_type"`
	Reasoning   string       `json:"reasoning"`
	Tasks       []Task       `json:"tasks,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// SiteSummary aggregates one monitoring sweep across every asset of a site.
type SiteSummary struct {
	SiteID        string        `json:"site_id"`
	SiteName      string        `json:"site_name"`
	Timestamp     time.Time     `json:"timestamp"`
	PumpsAnalyzed int           `json:"pumps_analyzed"`
	TasksCreated  []Task        `json:"tasks_created"`
	CriticalCount int           `json:"critical_count"`
	HighCount     int           `json:"high_count"`
	MediumCount   int           `json:"medium_count"`
	LowCount      int           `json:"low_count"`
	FailedAssets  int           `json:"failed_assets"`
	Assignments   []Assignment  `json:"assignments"`
	Details       []AssetDetail `json:"details"`
}

// TankStatus is the latest known level of a building's water tank.
type TankStatus struct {
	TankID          string    `json:"tank_id"`
	BuildingID      string    `json:"building_id"`
	LevelPercentage float64   `json:"level_percentage"`
	LevelState      string    `json:"level_state"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// WaterRunResult is the outcome of one water-supervisor run for a building.
type WaterRunResult struct {
	BuildingID   string            `json:"building_id"`
	TankStatus   TankStatus        `json:"tank_status"`
	Forecast     *DemandAssessment `json:"forecast,omitempty"`
	CreatedTasks []Task            `json:"created_tasks"`
	Notification *Notification     `json:"notification,omitempty"`
}
