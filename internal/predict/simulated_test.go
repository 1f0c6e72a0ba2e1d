package predict

import (
	"context"
	"testing"
	"time"
)

func TestSimulatedRiskIsDeterministic(t *testing.T) {
	ctx := context.Background()
	m := SimulatedRisk{}

	first, err := m.AssessFailureRisk(ctx, "PUMP_BLD_001_01", 48)
	if err != nil {
		t.Fatalf("AssessFailureRisk: %v", err)
	}
	second, _ := m.AssessFailureRisk(ctx, "PUMP_BLD_001_01", 48)
	if first.RiskScore != second.RiskScore {
		t.Fatalf("same pump scored %v then %v", first.RiskScore, second.RiskScore)
	}

	if first.RiskScore < 0 || first.RiskScore > 1 {
		t.Fatalf("risk score %v out of [0, 1]", first.RiskScore)
	}
	if first.RiskLevel != RiskLevel(first.RiskScore) {
		t.Fatalf("level %s does not match score %v", first.RiskLevel, first.RiskScore)
	}
	if len(first.Signals) == 0 {
		t.Fatal("no signals")
	}
	for _, metric := range []string{"vibration", "temperature", "pressure"} {
		if _, ok := first.CurrentMetrics[metric]; !ok {
			t.Fatalf("missing metric %s", metric)
		}
	}

	other, _ := m.AssessFailureRisk(ctx, "PUMP_BLD_002_01", 48)
	if other.RiskScore == first.RiskScore {
		t.Log("two pumps share a score; hash collision, not an error")
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "CRITICAL"},
		{0.8, "CRITICAL"},
		{0.7, "HIGH"},
		{0.6, "HIGH"},
		{0.4, "MEDIUM"},
		{0.3, "MEDIUM"},
		{0.1, "LOW"},
	}
	for _, tt := range tests {
		if got := RiskLevel(tt.score); got != tt.want {
			t.Errorf("RiskLevel(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestSimulatedDemandFollowsDailyPattern(t *testing.T) {
	ctx := context.Background()
	at := func(hour int) SimulatedDemand {
		return SimulatedDemand{Now: func() time.Time {
			return time.Date(2026, 8, 30, hour, 0, 0, 0, time.UTC)
		}}
	}

	peak, err := at(8).AssessDemand(ctx, "BLD_001", 24)
	if err != nil {
		t.Fatalf("AssessDemand: %v", err)
	}
	if peak.PredictedUtilization != 95 || peak.DemandLevel != "CRITICAL" {
		t.Fatalf("peak hour: predicted=%v level=%s", peak.PredictedUtilization, peak.DemandLevel)
	}

	shoulder, _ := at(9).AssessDemand(ctx, "BLD_001", 24)
	if shoulder.PredictedUtilization != 88 || shoulder.DemandLevel != "HIGH" {
		t.Fatalf("shoulder hour: predicted=%v level=%s", shoulder.PredictedUtilization, shoulder.DemandLevel)
	}

	quiet, _ := at(3).AssessDemand(ctx, "BLD_001", 24)
	if quiet.PredictedUtilization != 65 || quiet.DemandLevel != "NORMAL" {
		t.Fatalf("quiet hour: predicted=%v level=%s", quiet.PredictedUtilization, quiet.DemandLevel)
	}

	if !peak.PeakHour.Timestamp.After(time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("peak hour %v not in the future", peak.PeakHour.Timestamp)
	}
}

func TestDemandLevel(t *testing.T) {
	tests := []struct {
		predicted float64
		want      string
	}{
		{96, "CRITICAL"},
		{95, "CRITICAL"},
		{88, "HIGH"},
		{85, "HIGH"},
		{75, "MEDIUM"},
		{65, "NORMAL"},
	}
	for _, tt := range tests {
		if got := DemandLevel(tt.predicted); got != tt.want {
			t.Errorf("DemandLevel(%v) = %s, want %s", tt.predicted, got, tt.want)
		}
	}
}
