package models

import "time"

// RiskAssessment is the failure-risk output of the predictive maintenance
// model for one pump. Recomputed on every orchestration pass, never persisted.
type RiskAssessment struct {
	AssetID        string             `json:"asset_id"`
	HorizonHours   int                `json:"horizon_hours"`
	RiskScore      float64            `json:"risk_score"`
	RiskLevel      string             `json:"risk_level"`
	Signals        []string           `json:"signals"`
	CurrentMetrics map[string]float64 `json:"current_metrics,omitempty"`
}

// PeakPoint marks the forecasted peak demand hour.
type PeakPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// DemandAssessment is the demand-forecast output for one building.
type DemandAssessment struct {
	BuildingID           string    `json:"building_id"`
	HorizonHours         int       `json:"horizon_hours"`
	CurrentUtilization   float64   `json:"current_utilization"`
	PredictedUtilization float64   `json:"predicted_utilization"`
	ForecastTotal        float64   `json:"forecast_total"`
	DemandLevel          string    `json:"demand_level"`
	PeakHour             PeakPoint `json:"peak_hour"`
	Recommendation       string    `json:"recommendation,omitempty"`
}
