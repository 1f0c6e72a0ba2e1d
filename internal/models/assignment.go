package models

import "time"

// Assignment records the routing outcome for one task. TechnicianID is nil
// when no technician could be assigned and the task was escalated.
type Assignment struct {
	TaskID         string           `json:"task_id"`
	TaskTitle      string           `json:"task_title"`
	TechnicianID   *string          `json:"technician_id"`
	TechnicianName string           `json:"technician_name"`
	Priority       Priority         `json:"priority"`
	SLAHours       int              `json:"sla_hours"`
	AssignedAt     time.Time        `json:"assigned_at"`
	Status         AssignmentStatus `json:"status"`
}
