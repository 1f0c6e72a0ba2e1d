package workflow

import (
	"fmt"

	"monitoring-service/internal/models"
)

// Stage names a workflow stage. The supervisor stage inspects accumulated
// state and picks the next stage; assessment stages return to the
// supervisor; routing is terminal.
type Stage string

const (
	StageSupervisor  Stage = "supervisor"
	StageMaintenance Stage = "maintenance"
	StageForecast    Stage = "forecast"
	StageRouting     Stage = "routing"
	StageEnd         Stage = "end"
)

// State accumulates the per-asset workflow run: assessment, decision, tasks,
// and assignments, plus a human-readable trace.
type State struct {
	SiteID     string
	PumpID     string
	BuildingID string

	Risk   *models.RiskAssessment
	Demand *models.DemandAssessment

	Decision *models.ActionDecision

	// Tasks are all open tasks this run knows about (fresh or deduplicated);
	// CreatedTasks are only the ones this run actually created.
	Tasks        []models.Task
	CreatedTasks []models.Task
	Assignments  []models.Assignment

	Trace []string
	Err   error

	Current Stage
	Next    Stage
}

// NewState initializes a workflow state for one asset.
func NewState(siteID, pumpID, buildingID string) *State {
	return &State{
		SiteID:     siteID,
		PumpID:     pumpID,
		BuildingID: buildingID,
		Current:    StageSupervisor,
	}
}

func (s *State) trace(format string, args ...interface{}) {
	s.Trace = append(s.Trace, fmt.Sprintf(format, args...))
}

// NextStage is the supervisor's transition function: assessment first, then
// routing once tasks exist without assignments, then end.
func NextStage(s *State) Stage {
	switch {
	case s.PumpID != "" && s.Risk == nil:
		return StageMaintenance
	case s.PumpID == "" && s.BuildingID != "" && s.Demand == nil:
		return StageForecast
	case len(s.Tasks) > 0 && len(s.Assignments) == 0:
		return StageRouting
	default:
		return StageEnd
	}
}
