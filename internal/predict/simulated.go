package predict

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"monitoring-service/internal/models"
)

// SimulatedRisk derives a stable pseudo-risk from the asset id, so the same
// pump scores the same on every pass. Stands in for the trained predictive
// maintenance model.
type SimulatedRisk struct{}

func (SimulatedRisk) AssessFailureRisk(_ context.Context, assetID string, horizonHours int) (models.RiskAssessment, error) {
	h := fnv.New32a()
	h.Write([]byte(assetID))
	score := float64(h.Sum32()%1000) / 999.0

	vibration := 1.5 + score*4.0 // mm/s
	temperature := 45.0 + score*30.0
	pressure := 4.5 - score*1.5 // bar

	var signals []string
	if vibration > 4.5 {
		signals = append(signals, fmt.Sprintf("Vibration trending high at %.2f mm/s", vibration))
	}
	if temperature > 65.0 {
		signals = append(signals, fmt.Sprintf("Bearing temperature elevated at %.1f C", temperature))
	}
	if pressure < 3.5 {
		signals = append(signals, fmt.Sprintf("Discharge pressure dropping to %.1f bar", pressure))
	}
	if len(signals) == 0 {
		signals = append(signals, "All metrics within normal range")
	}

	return models.RiskAssessment{
		AssetID:      assetID,
		HorizonHours: horizonHours,
		RiskScore:    score,
		RiskLevel:    RiskLevel(score),
		Signals:      signals,
		CurrentMetrics: map[string]float64{
			"vibration":   vibration,
			"temperature": temperature,
			"pressure":    pressure,
		},
	}, nil
}

// RiskLevel buckets a risk score.
func RiskLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "CRITICAL"
	case score >= 0.6:
		return "HIGH"
	case score >= 0.3:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// SimulatedDemand mimics daily demand patterns with morning and evening
// peaks. Stands in for the trained demand forecast model.
type SimulatedDemand struct {
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s SimulatedDemand) AssessDemand(_ context.Context, buildingID string, horizonHours int) (models.DemandAssessment, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now()

	var current, predicted float64
	switch t.Hour() {
	case 7, 8, 19, 20:
		current, predicted = 85, 95
	case 9, 18, 21:
		current, predicted = 75, 88
	default:
		current, predicted = 60, 65
	}

	peak := t.Add(2 * time.Hour).Truncate(time.Hour)
	level := DemandLevel(predicted)

	return models.DemandAssessment{
		BuildingID:           buildingID,
		HorizonHours:         horizonHours,
		CurrentUtilization:   current,
		PredictedUtilization: predicted,
		ForecastTotal:        predicted * float64(horizonHours) * 10, // liters
		DemandLevel:          level,
		PeakHour:             models.PeakPoint{Timestamp: peak, Value: predicted},
		Recommendation:       recommendation(level),
	}, nil
}

// DemandLevel buckets predicted utilization percent.
func DemandLevel(predicted float64) string {
	switch {
	case predicted >= 95:
		return "CRITICAL"
	case predicted >= 85:
		return "HIGH"
	case predicted >= 70:
		return "MEDIUM"
	default:
		return "NORMAL"
	}
}

func recommendation(level string) string {
	switch level {
	case "CRITICAL":
		return "Immediate action required: bring backup capacity online"
	case "HIGH":
		return "Prepare backup systems before predicted peak"
	case "MEDIUM":
		return "Enhanced monitoring through the peak window"
	default:
		return "Standard monitoring"
	}
}
