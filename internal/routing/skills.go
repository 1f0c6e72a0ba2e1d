package routing

import "monitoring-service/internal/models"

// skillTable maps an action type to the technician skills it needs. Anything
// unmapped falls back to the general bucket.
var skillTable = map[models.ActionType][]string{
	models.ActionUrgentInspection:     {"pumps", "diagnostics"},
	models.ActionScheduledMaintenance: {"pumps", "mechanical"},
	models.ActionEnhancedMonitoring:   {"sensors"},
	models.ActionCapacityAlert:        {"pumps", "electrical"},
	models.ActionCapacityMonitoring:   {"sensors"},
}

// RequiredSkills returns the skills needed to work a task of the given
// action type.
func RequiredSkills(a models.ActionType) []string {
	if skills, ok := skillTable[a]; ok {
		return skills
	}
	return []string{"general"}
}
