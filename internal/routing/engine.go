// Package routing assigns open tasks to technicians under skill and capacity
// constraints, escalating when nobody qualifies.
package routing

import (
	"time"

	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
	"monitoring-service/internal/registry"
)

// Escalated is the technician name recorded on escalated assignments.
const Escalated = "ESCALATED - No available technician"

// Engine routes tasks against a technician registry.
type Engine struct {
	reg    *registry.Registry
	logger *logging.Logger
}

// NewEngine creates a routing engine over the given registry.
func NewEngine(reg *registry.Registry, logger *logging.Logger) *Engine {
	return &Engine{reg: reg, logger: logger}
}

// Route produces one assignment per task not already present in existing,
// in input order. Registry capacity consumed for a task is visible to every
// later task in the same pass, so routing must stay sequential.
//
// No technician available is not an error: the task gets an escalated
// assignment with a nil technician id.
func (e *Engine) Route(tasks []models.Task, existing []models.Assignment) []models.Assignment {
	assigned := make(map[string]bool, len(existing))
	for _, a := range existing {
		assigned[a.TaskID] = true
	}

	var out []models.Assignment
	for _, task := range tasks {
		if assigned[task.TaskID] {
			continue
		}
		assigned[task.TaskID] = true

		a := models.Assignment{
			TaskID:     task.TaskID,
			TaskTitle:  task.Title,
			Priority:   task.Priority,
			SLAHours:   task.SLAHours,
			AssignedAt: time.Now().UTC(),
		}

		required := RequiredSkills(task.ActionType)
		if tech, ok := e.reg.Claim(required); ok {
			id := tech.ID
			a.TechnicianID = &id
			a.TechnicianName = tech.Name
			a.Status = models.AssignmentAssigned
			e.logger.Infof("Assigned %s to %s (load %d/%d)", task.TaskID, tech.Name, tech.CurrentLoad, tech.MaxCapacity)
		} else {
			a.TechnicianName = Escalated
			a.Status = models.AssignmentEscalated
			e.logger.Warnf("Escalated %s: no technician available", task.TaskID)
		}
		out = append(out, a)
	}
	return out
}
