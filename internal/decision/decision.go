// Package decision turns an assessment into a structured action decision,
// optionally refined by the external reasoning oracle.
package decision

import (
	"context"
	"fmt"
	"strings"

	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
	"monitoring-service/internal/oracle"
)

// Decider maps assessments to action decisions. With no oracle configured,
// or when the oracle fails, every decision degrades to Default(), even for
// high-risk assessments. Callers treat a default decision as "no action".
type Decider struct {
	oracle oracle.Oracle
	logger *logging.Logger
}

// New creates a Decider. oracle may be nil.
func New(o oracle.Oracle, logger *logging.Logger) *Decider {
	return &Decider{oracle: o, logger: logger}
}

// Default is the fixed fallback decision used when the oracle is unavailable
// or a response field is malformed.
func Default() models.ActionDecision {
	return models.ActionDecision{
		ActionRequired: false,
		ActionType:     models.ActionNone,
		Priority:       models.PriorityLow,
		SLAHours:       nil,
		Reasoning:      "No reasoning provided",
	}
}

// RiskPriority buckets a risk score into a baseline priority.
func RiskPriority(score float64) models.Priority {
	switch {
	case score >= 0.8:
		return models.PriorityCritical
	case score >= 0.6:
		return models.PriorityHigh
	case score >= 0.3:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// DemandPriority buckets a demand level into a baseline priority.
func DemandPriority(level string) models.Priority {
	switch level {
	case "CRITICAL":
		return models.PriorityCritical
	case "HIGH":
		return models.PriorityHigh
	case "MEDIUM":
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// DecideRisk turns a failure-risk assessment into an action decision.
func (d *Decider) DecideRisk(ctx context.Context, a models.RiskAssessment) models.ActionDecision {
	baseline := RiskPriority(a.RiskScore)
	return d.consult(ctx, riskPrompt(a, baseline))
}

// DecideDemand turns a demand assessment into an action decision.
func (d *Decider) DecideDemand(ctx context.Context, a models.DemandAssessment) models.ActionDecision {
	baseline := DemandPriority(a.DemandLevel)
	return d.consult(ctx, demandPrompt(a, baseline))
}

func (d *Decider) consult(ctx context.Context, prompt string) models.ActionDecision {
	if d.oracle == nil {
		return Default()
	}
	resp, err := d.oracle.Reason(ctx, prompt)
	if err != nil {
		d.logger.Warnf("Oracle call failed, using default decision: %v", err)
		return Default()
	}
	return Parse(resp)
}

func riskPrompt(a models.RiskAssessment, baseline models.Priority) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing pump failure risk.\n\n")
	fmt.Fprintf(&b, "PUMP: %s\n", a.AssetID)
	fmt.Fprintf(&b, "RISK SCORE: %.1f%%\n", a.RiskScore*100)
	fmt.Fprintf(&b, "RISK LEVEL: %s\n", a.RiskLevel)
	fmt.Fprintf(&b, "BASELINE PRIORITY: %s\n\n", baseline)
	if len(a.CurrentMetrics) > 0 {
		fmt.Fprintf(&b, "CURRENT METRICS:\n")
		fmt.Fprintf(&b, "- Vibration: %.2f mm/s\n", a.CurrentMetrics["vibration"])
		fmt.Fprintf(&b, "- Temperature: %.1f C\n", a.CurrentMetrics["temperature"])
		fmt.Fprintf(&b, "- Pressure: %.1f bar\n\n", a.CurrentMetrics["pressure"])
	}
	fmt.Fprintf(&b, "FAILURE SIGNALS:\n")
	for _, s := range a.Signals {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString(promptFooter("urgent_inspection | scheduled_maintenance | enhanced_monitoring | none", "4 | 24 | 72 | null"))
	return b.String()
}

func demandPrompt(a models.DemandAssessment, baseline models.Priority) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing water demand capacity.\n\n")
	fmt.Fprintf(&b, "BUILDING: %s\n", a.BuildingID)
	fmt.Fprintf(&b, "CURRENT DEMAND: %.0f%% of capacity\n", a.CurrentUtilization)
	fmt.Fprintf(&b, "PREDICTED DEMAND: %.0f%% of capacity\n", a.PredictedUtilization)
	fmt.Fprintf(&b, "PREDICTED PEAK TIME: %s\n", a.PeakHour.Timestamp.Format("15:04"))
	fmt.Fprintf(&b, "DEMAND LEVEL: %s\n", a.DemandLevel)
	fmt.Fprintf(&b, "BASELINE PRIORITY: %s\n", baseline)
	b.WriteString(promptFooter("capacity_alert | capacity_monitoring | enhanced_monitoring | none", "2 | 6 | 12 | null"))
	return b.String()
}

func promptFooter(actionTypes, slaOptions string) string {
	return fmt.Sprintf(`
Decide:
ACTION_REQUIRED: true/false
ACTION_TYPE: %s
PRIORITY: CRITICAL | HIGH | MEDIUM | LOW
SLA_HOURS: %s
REASONING: max 2 sentences

Return EXACTLY:
ACTION_REQUIRED: ...
ACTION_TYPE: ...
PRIORITY: ...
SLA_HOURS: ...
REASONING: ...
`, actionTypes, slaOptions)
}
