package decision

import (
	"context"
	"errors"
	"testing"

	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
)

type fakeOracle struct {
	resp string
	err  error
}

func (f fakeOracle) Reason(_ context.Context, _ string) (string, error) {
	return f.resp, f.err
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(t.TempDir(), "error")
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return l
}

func TestRiskPriority(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Priority
	}{
		{0.95, models.PriorityCritical},
		{0.8, models.PriorityCritical},
		{0.79, models.PriorityHigh},
		{0.6, models.PriorityHigh},
		{0.59, models.PriorityMedium},
		{0.3, models.PriorityMedium},
		{0.29, models.PriorityLow},
		{0, models.PriorityLow},
	}
	for _, tt := range tests {
		if got := RiskPriority(tt.score); got != tt.want {
			t.Errorf("RiskPriority(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestDemandPriority(t *testing.T) {
	tests := []struct {
		level string
		want  models.Priority
	}{
		{"CRITICAL", models.PriorityCritical},
		{"HIGH", models.PriorityHigh},
		{"MEDIUM", models.PriorityMedium},
		{"NORMAL", models.PriorityLow},
		{"UNKNOWN", models.PriorityLow},
	}
	for _, tt := range tests {
		if got := DemandPriority(tt.level); got != tt.want {
			t.Errorf("DemandPriority(%s) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestParseWellFormed(t *testing.T) {
	d := Parse(`ACTION_REQUIRED: true
ACTION_TYPE: urgent_inspection
PRIORITY: CRITICAL
SLA_HOURS: 4
REASONING: Vibration and temperature both trending past alarm thresholds.`)

	if !d.ActionRequired {
		t.Fatal("ActionRequired = false")
	}
	if d.ActionType != models.ActionUrgentInspection {
		t.Fatalf("ActionType = %s", d.ActionType)
	}
	if d.Priority != models.PriorityCritical {
		t.Fatalf("Priority = %s", d.Priority)
	}
	if d.SLAHours == nil || *d.SLAHours != 4 {
		t.Fatalf("SLAHours = %v", d.SLAHours)
	}
	if d.Reasoning == "No reasoning provided" {
		t.Fatal("Reasoning fell back to default")
	}
}

func TestParseTolerance(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.ActionDecision
	}{
		{
			name: "empty response",
			text: "",
			want: Default(),
		},
		{
			name: "garbage response",
			text: "I think the pump looks fine, no structured answer here.",
			want: Default(),
		},
		{
			name: "mixed case and spacing",
			text: "action_required:  TRUE\n  ACTION_TYPE : Scheduled_Maintenance\npriority: high\nSLA_HOURS: null\nREASONING: Schedule within the day.",
			want: models.ActionDecision{
				ActionRequired: true,
				ActionType:     models.ActionScheduledMaintenance,
				Priority:       models.PriorityHigh,
				SLAHours:       nil,
				Reasoning:      "Schedule within the day.",
			},
		},
		{
			name: "unknown enum values fall back per field",
			text: "ACTION_REQUIRED: yes\nACTION_TYPE: replace_pump\nPRIORITY: SEVERE\nSLA_HOURS: soon\nREASONING: ",
			want: Default(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if got.ActionRequired != tt.want.ActionRequired ||
				got.ActionType != tt.want.ActionType ||
				got.Priority != tt.want.Priority ||
				got.Reasoning != tt.want.Reasoning {
				t.Fatalf("Parse = %+v, want %+v", got, tt.want)
			}
			if (got.SLAHours == nil) != (tt.want.SLAHours == nil) {
				t.Fatalf("SLAHours = %v, want %v", got.SLAHours, tt.want.SLAHours)
			}
			if got.SLAHours != nil && *got.SLAHours != *tt.want.SLAHours {
				t.Fatalf("SLAHours = %d, want %d", *got.SLAHours, *tt.want.SLAHours)
			}
		})
	}
}

func TestDecideRiskWithoutOracle(t *testing.T) {
	d := New(nil, testLogger(t))

	// High risk with no oracle still yields the no-action default.
	got := d.DecideRisk(context.Background(), models.RiskAssessment{
		AssetID:   "PUMP_BLD_001_01",
		RiskScore: 0.85,
		RiskLevel: "CRITICAL",
		Signals:   []string{"Vibration trending high at 5.20 mm/s"},
	})
	if got.ActionRequired {
		t.Fatal("no-oracle decision required action")
	}
	if got != Default() {
		t.Fatalf("got %+v, want Default()", got)
	}
}

func TestDecideRiskOracleFailure(t *testing.T) {
	d := New(fakeOracle{err: errors.New("connection refused")}, testLogger(t))

	got := d.DecideRisk(context.Background(), models.RiskAssessment{
		AssetID:   "PUMP_BLD_001_01",
		RiskScore: 0.85,
		RiskLevel: "CRITICAL",
	})
	if got != Default() {
		t.Fatalf("oracle failure: got %+v, want Default()", got)
	}
}

func TestDecideRiskOracleSuccess(t *testing.T) {
	d := New(fakeOracle{resp: `ACTION_REQUIRED: true
ACTION_TYPE: urgent_inspection
PRIORITY: CRITICAL
SLA_HOURS: 4
REASONING: Immediate inspection warranted.`}, testLogger(t))

	got := d.DecideRisk(context.Background(), models.RiskAssessment{
		AssetID:        "PUMP_BLD_001_01",
		RiskScore:      0.85,
		RiskLevel:      "CRITICAL",
		CurrentMetrics: map[string]float64{"vibration": 5.2, "temperature": 71.0, "pressure": 3.2},
	})
	if !got.ActionRequired || got.ActionType != models.ActionUrgentInspection || got.Priority != models.PriorityCritical {
		t.Fatalf("got %+v", got)
	}
}

func TestDecideDemandOracleSuccess(t *testing.T) {
	d := New(fakeOracle{resp: `ACTION_REQUIRED: true
ACTION_TYPE: capacity_alert
PRIORITY: HIGH
SLA_HOURS: 2
REASONING: Predicted peak exceeds safe capacity.`}, testLogger(t))

	got := d.DecideDemand(context.Background(), models.DemandAssessment{
		BuildingID:           "BLD_001",
		CurrentUtilization:   85,
		PredictedUtilization: 95,
		DemandLevel:          "CRITICAL",
	})
	if !got.ActionRequired || got.ActionType != models.ActionCapacityAlert || got.Priority != models.PriorityHigh {
		t.Fatalf("got %+v", got)
	}
	if got.SLAHours == nil || *got.SLAHours != 2 {
		t.Fatalf("SLAHours = %v, want 2", got.SLAHours)
	}
}
