package routing

import (
	"testing"

	"monitoring-service/internal/config"
	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
	"monitoring-service/internal/registry"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(t.TempDir(), "error")
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	return l
}

func testTask(id string, action models.ActionType) models.Task {
	return models.Task{
		TaskID:     id,
		Title:      "HIGH: Inspect " + id,
		ActionType: action,
		Priority:   models.PriorityHigh,
		SLAHours:   4,
		Status:     models.TaskOpen,
	}
}

func TestRequiredSkills(t *testing.T) {
	tests := []struct {
		action models.ActionType
		want   []string
	}{
		{models.ActionUrgentInspection, []string{"pumps", "diagnostics"}},
		{models.ActionScheduledMaintenance, []string{"pumps", "mechanical"}},
		{models.ActionEnhancedMonitoring, []string{"sensors"}},
		{models.ActionCapacityAlert, []string{"pumps", "electrical"}},
		{models.ActionCapacityMonitoring, []string{"sensors"}},
		{models.ActionNone, []string{"general"}},
		{models.ActionType(""), []string{"general"}},
	}
	for _, tt := range tests {
		got := RequiredSkills(tt.action)
		if len(got) != len(tt.want) {
			t.Fatalf("RequiredSkills(%s) = %v, want %v", tt.action, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("RequiredSkills(%s) = %v, want %v", tt.action, got, tt.want)
			}
		}
	}
}

func TestRouteAssignsBySkillAndLoad(t *testing.T) {
	reg := registry.Seed(config.DefaultRegistry().Technicians)
	e := NewEngine(reg, testLogger(t))

	out := e.Route([]models.Task{testTask("TASK_00000001", models.ActionScheduledMaintenance)}, nil)
	if len(out) != 1 {
		t.Fatalf("got %d assignments, want 1", len(out))
	}
	a := out[0]
	if a.Status != models.AssignmentAssigned {
		t.Fatalf("status = %s, want assigned", a.Status)
	}
	// pumps+mechanical: TECH_002 at load 1 beats TECH_001 at load 2.
	if a.TechnicianID == nil || *a.TechnicianID != "TECH_002" {
		t.Fatalf("assigned to %v, want TECH_002", a.TechnicianID)
	}

	tech, _ := reg.Get("TECH_002")
	if tech.CurrentLoad != 2 {
		t.Fatalf("TECH_002 load = %d, want 2", tech.CurrentLoad)
	}
}

func TestRouteConsumesCapacitySequentially(t *testing.T) {
	reg := registry.New()
	reg.Add(models.Technician{ID: "T1", Name: "One", Skills: []string{"pumps", "mechanical"}, Available: true, CurrentLoad: 1, MaxCapacity: 2})
	reg.Add(models.Technician{ID: "T2", Name: "Two", Skills: []string{"pumps", "mechanical"}, Available: true, CurrentLoad: 1, MaxCapacity: 3})
	e := NewEngine(reg, testLogger(t))

	tasks := []models.Task{
		testTask("TASK_00000001", models.ActionScheduledMaintenance),
		testTask("TASK_00000002", models.ActionScheduledMaintenance),
		testTask("TASK_00000003", models.ActionScheduledMaintenance),
	}
	out := e.Route(tasks, nil)
	if len(out) != 3 {
		t.Fatalf("got %d assignments, want 3", len(out))
	}

	// First claim hits capacity on T1, later tasks must see that.
	if *out[0].TechnicianID != "T1" {
		t.Fatalf("task 1 went to %s, want T1", *out[0].TechnicianID)
	}
	if *out[1].TechnicianID != "T2" || *out[2].TechnicianID != "T2" {
		t.Fatalf("tasks 2, 3 went to %s, %s, want T2, T2", *out[1].TechnicianID, *out[2].TechnicianID)
	}
}

func TestRouteEscalatesWhenNobodyAvailable(t *testing.T) {
	reg := registry.New()
	reg.Add(models.Technician{ID: "T1", Name: "One", Skills: []string{"pumps"}, Available: false, CurrentLoad: 5, MaxCapacity: 5})
	e := NewEngine(reg, testLogger(t))

	out := e.Route([]models.Task{testTask("TASK_00000001", models.ActionUrgentInspection)}, nil)
	if len(out) != 1 {
		t.Fatalf("got %d assignments, want 1", len(out))
	}
	a := out[0]
	if a.Status != models.AssignmentEscalated {
		t.Fatalf("status = %s, want escalated", a.Status)
	}
	if a.TechnicianID != nil {
		t.Fatalf("escalated assignment has technician id %s", *a.TechnicianID)
	}
	if a.TechnicianName != Escalated {
		t.Fatalf("technician name = %q, want %q", a.TechnicianName, Escalated)
	}
}

func TestRouteSkipsExistingAssignments(t *testing.T) {
	reg := registry.Seed(config.DefaultRegistry().Technicians)
	e := NewEngine(reg, testLogger(t))

	task := testTask("TASK_00000001", models.ActionScheduledMaintenance)
	first := e.Route([]models.Task{task}, nil)
	if len(first) != 1 {
		t.Fatalf("first pass: got %d assignments, want 1", len(first))
	}

	second := e.Route([]models.Task{task}, first)
	if len(second) != 0 {
		t.Fatalf("second pass re-routed an already-assigned task: %d assignments", len(second))
	}

	// Capacity consumed only once.
	tech, _ := reg.Get("TECH_002")
	if tech.CurrentLoad != 2 {
		t.Fatalf("TECH_002 load = %d, want 2", tech.CurrentLoad)
	}
}

func TestRouteDeduplicatesInputTasks(t *testing.T) {
	reg := registry.Seed(config.DefaultRegistry().Technicians)
	e := NewEngine(reg, testLogger(t))

	task := testTask("TASK_00000001", models.ActionScheduledMaintenance)
	out := e.Route([]models.Task{task, task}, nil)
	if len(out) != 1 {
		t.Fatalf("duplicated input task routed %d times, want 1", len(out))
	}
}
