package models

// TaskStatus is the lifecycle state of a work task. Tasks are never deleted,
// only transitioned.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "OPEN"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone, TaskCancelled:
		return true
	}
	return false
}

// Terminal reports whether a task in this status can no longer transition.
func (s TaskStatus) Terminal() bool {
	return s == TaskDone || s == TaskCancelled
}

// Priority ranks tasks and decisions.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ActionType classifies the remedial action a decision asks for. The routing
// engine maps it to required technician skills.
type ActionType string

const (
	ActionUrgentInspection     ActionType = "urgent_inspection"
	ActionScheduledMaintenance ActionType = "scheduled_maintenance"
	ActionEnhancedMonitoring   ActionType = "enhanced_monitoring"
	ActionCapacityAlert        ActionType = "capacity_alert"
	ActionCapacityMonitoring   ActionType = "capacity_monitoring"
	ActionNone                 ActionType = "none"
)

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	switch a {
	case ActionUrgentInspection, ActionScheduledMaintenance, ActionEnhancedMonitoring,
		ActionCapacityAlert, ActionCapacityMonitoring, ActionNone:
		return true
	}
	return false
}

// AssignmentStatus is the outcome of routing a single task.
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentEscalated AssignmentStatus = "escalated"
)
