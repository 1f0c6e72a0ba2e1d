package models

// ActionDecision is the structured outcome of the decision step for one
// assessment. It is never persisted on its own; it only materializes into a
// Task when ActionRequired is true.
type ActionDecision struct {
	ActionRequired bool       `json:"action_required"`
	ActionType     ActionType `json:"action_type"`
	Priority       Priority   `json:"priority"`
	SLAHours       *int       `json:"sla_hours"`
	Reasoning      string     `json:"reasoning"`
}
