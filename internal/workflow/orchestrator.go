package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"monitoring-service/internal/assets"
	"monitoring-service/internal/config"
	"monitoring-service/internal/decision"
	"monitoring-service/internal/logging"
	"monitoring-service/internal/models"
	"monitoring-service/internal/notify"
	"monitoring-service/internal/predict"
	"monitoring-service/internal/routing"
	"monitoring-service/internal/store"
)

// Orchestrator sequences assess → decide → create task → route → notify
// across the assets of a site. Sweeps run one asset at a time: routing
// consumes technician capacity, and that mutation must be visible before the
// next task is routed.
type Orchestrator struct {
	sites    config.Registry
	store    store.Store
	risk     predict.RiskModel
	demand   predict.DemandModel
	decider  *decision.Decider
	engine   *routing.Engine
	notifier *notify.Service
	cache    *assets.Cache
	logger   *logging.Logger
	horizon  int

	mu     sync.Mutex
	ledger map[string]models.Assignment // task_id -> assignment, never overwritten
}

// New wires an Orchestrator.
func New(sites config.Registry, st store.Store, risk predict.RiskModel, demand predict.DemandModel,
	decider *decision.Decider, engine *routing.Engine, notifier *notify.Service,
	cache *assets.Cache, logger *logging.Logger, horizonHours int) *Orchestrator {
	return &Orchestrator{
		sites:    sites,
		store:    st,
		risk:     risk,
		demand:   demand,
		decider:  decider,
		engine:   engine,
		notifier: notifier,
		cache:    cache,
		logger:   logger,
		horizon:  horizonHours,
		ledger:   make(map[string]models.Assignment),
	}
}

// Sites exposes the configured site registry.
func (o *Orchestrator) Sites() config.Registry {
	return o.sites
}

func (o *Orchestrator) newMachine() *Machine {
	return NewMachine(map[Stage]StepFunc{
		StageMaintenance: o.maintenanceStep,
		StageForecast:    o.forecastStep,
		StageRouting:     o.routingStep,
	})
}

// RunSiteSweep runs the per-asset state machine for every asset of a site
// and aggregates the results. A failure on one asset is counted and logged;
// the sweep continues. Only an unknown site aborts the invocation.
func (o *Orchestrator) RunSiteSweep(ctx context.Context, siteID string) (models.SiteSummary, error) {
	site, ok := o.sites.Site(siteID)
	if !ok {
		return models.SiteSummary{}, fmt.Errorf("site %s not found", siteID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	summary := models.SiteSummary{
		SiteID:       site.ID,
		SiteName:     site.Name,
		Timestamp:    time.Now().UTC(),
		TasksCreated: []models.Task{},
		Assignments:  []models.Assignment{},
	}

	machine := o.newMachine()
	for _, building := range site.Buildings {
		for _, pumpID := range building.Pumps {
			o.logger.Infof("Analyzing pump %s", pumpID)
			state := NewState(site.ID, pumpID, building.ID)
			machine.Run(ctx, state)
			summary.PumpsAnalyzed++
			o.collect(&summary, pumpID, state)
		}

		o.logger.Infof("Analyzing demand for building %s", building.ID)
		state := NewState(site.ID, "", building.ID)
		machine.Run(ctx, state)
		o.collect(&summary, building.ID, state)
	}

	o.logger.Infof("Sweep of %s done: %d pumps, %d tasks created, %d assignments, %d failed assets",
		site.ID, summary.PumpsAnalyzed, len(summary.TasksCreated), len(summary.Assignments), summary.FailedAssets)
	return summary, nil
}

// collect folds one asset's workflow state into the sweep summary. The
// ledger must be held (o.mu) by the caller.
func (o *Orchestrator) collect(summary *models.SiteSummary, assetID string, s *State) {
	detail := models.AssetDetail{
		AssetID:     assetID,
		Priority:    models.PriorityLow,
		ActionType:  models.ActionNone,
		Tasks:       s.Tasks,
		Assignments: s.Assignments,
	}
	if s.Risk != nil {
		detail.RiskScore = s.Risk.RiskScore
	}
	if s.Decision != nil {
		detail.Priority = s.Decision.Priority
		detail.ActionType = s.Decision.ActionType
		detail.Reasoning = s.Decision.Reasoning
	}
	if s.Err != nil {
		detail.Error = s.Err.Error()
		summary.FailedAssets++
		o.logger.Errorf("Error analyzing %s: %v", assetID, s.Err)
	}

	// A failed asset has no trustworthy outcome; it counts low regardless
	// of what the decision said before the failure.
	switch {
	case s.Err != nil:
		summary.LowCount++
	case detail.Priority == models.PriorityCritical:
		summary.CriticalCount++
	case detail.Priority == models.PriorityHigh:
		summary.HighCount++
	case detail.Priority == models.PriorityMedium:
		summary.MediumCount++
	default:
		summary.LowCount++
	}

	summary.TasksCreated = append(summary.TasksCreated, s.CreatedTasks...)
	summary.Assignments = append(summary.Assignments, s.Assignments...)
	summary.Details = append(summary.Details, detail)
}

// maintenanceStep obtains a risk assessment, decides, and conditionally
// creates a task. Model failure degrades to no action and returns control to
// the supervisor.
func (o *Orchestrator) maintenanceStep(ctx context.Context, s *State) {
	s.trace("maintenance: analyzing pump %s", s.PumpID)

	assessment, err := o.risk.AssessFailureRisk(ctx, s.PumpID, o.horizon)
	if err != nil {
		s.trace("maintenance: risk model unavailable for %s: %v", s.PumpID, err)
		s.Risk = &models.RiskAssessment{
			AssetID:      s.PumpID,
			HorizonHours: o.horizon,
			RiskLevel:    "UNKNOWN",
			Signals:      []string{"model not trained/available"},
		}
		d := decision.Default()
		s.Decision = &d
		return
	}
	s.Risk = &assessment
	s.trace("maintenance: risk %.1f%% (%s)", assessment.RiskScore*100, assessment.RiskLevel)

	d := o.decider.DecideRisk(ctx, assessment)
	s.Decision = &d
	if !d.ActionRequired {
		s.trace("maintenance: %s operating normally", s.PumpID)
		return
	}

	signals := assessment.Signals
	if len(signals) > 2 {
		signals = signals[:2]
	}
	o.createTask(ctx, s, store.CreateTaskInput{
		Title:       fmt.Sprintf("%s: Inspect %s", d.Priority, s.PumpID),
		Description: fmt.Sprintf("Risk: %.1f%%. Signals: %s. %s", assessment.RiskScore*100, strings.Join(signals, ", "), d.Reasoning),
		AssetType:   "pump",
		AssetID:     s.PumpID,
		BuildingID:  s.BuildingID,
		ActionType:  d.ActionType,
		Priority:    d.Priority,
		SLAHours:    slaOrDefault(d.SLAHours, 24),
	})
}

// forecastStep obtains a demand assessment, decides, and conditionally
// creates a capacity task.
func (o *Orchestrator) forecastStep(ctx context.Context, s *State) {
	s.trace("forecast: analyzing building %s", s.BuildingID)

	assessment, err := o.demand.AssessDemand(ctx, s.BuildingID, o.horizon)
	if err != nil {
		s.trace("forecast: demand model unavailable for %s: %v", s.BuildingID, err)
		s.Demand = &models.DemandAssessment{
			BuildingID:   s.BuildingID,
			HorizonHours: o.horizon,
			DemandLevel:  "UNKNOWN",
		}
		d := decision.Default()
		s.Decision = &d
		return
	}
	s.Demand = &assessment
	s.trace("forecast: predicted %.0f%% (%s)", assessment.PredictedUtilization, assessment.DemandLevel)

	d := o.decider.DecideDemand(ctx, assessment)
	s.Decision = &d
	if !d.ActionRequired {
		s.trace("forecast: %s demand normal", s.BuildingID)
		return
	}

	o.createTask(ctx, s, store.CreateTaskInput{
		Title: fmt.Sprintf("%s: Capacity Alert - %s", d.Priority, s.BuildingID),
		Description: fmt.Sprintf("Predicted demand: %.0f%% at %s. Current: %.0f%%. %s",
			assessment.PredictedUtilization, assessment.PeakHour.Timestamp.Format("15:04"),
			assessment.CurrentUtilization, d.Reasoning),
		AssetType:  "building",
		AssetID:    s.BuildingID,
		BuildingID: s.BuildingID,
		ActionType: d.ActionType,
		Priority:   d.Priority,
		SLAHours:   slaOrDefault(d.SLAHours, 24),
	})
}

// createTask persists a task through the deduplicating store and records it
// on the state. Store failure is an asset-level failure: recorded, isolated,
// never fatal to the sweep.
func (o *Orchestrator) createTask(ctx context.Context, s *State, in store.CreateTaskInput) {
	task, created, err := o.store.CreateTask(ctx, in)
	if err != nil {
		s.Err = fmt.Errorf("create task for %s: %w", in.AssetID, err)
		s.trace("task creation failed: %v", err)
		return
	}
	s.Tasks = append(s.Tasks, task)
	if created {
		s.CreatedTasks = append(s.CreatedTasks, task)
		s.trace("task %s created (%s)", task.TaskID, task.Priority)
		if o.notifier != nil {
			o.notifier.TaskCreated(task)
		}
	} else {
		s.trace("task already open for %s, reusing %s", in.AssetID, task.TaskID)
	}
}

// routingStep hands the state's tasks to the assignment engine, skipping
// tasks already in the ledger, and records new assignments.
func (o *Orchestrator) routingStep(_ context.Context, s *State) {
	s.trace("routing: assigning %d task(s)", len(s.Tasks))
	newAssignments := o.engine.Route(s.Tasks, o.ledgerValues())
	for _, a := range newAssignments {
		o.ledger[a.TaskID] = a
	}
	s.Assignments = newAssignments
	s.trace("routing: %d new assignment(s)", len(newAssignments))
}

// RouteOpenTasks routes every OPEN task in the store that has no assignment
// yet. Exposed for the API routing trigger.
func (o *Orchestrator) RouteOpenTasks(ctx context.Context) ([]models.Assignment, error) {
	tasks, err := o.store.ListTasks(ctx, store.TaskFilter{Status: models.TaskOpen})
	if err != nil {
		return nil, fmt.Errorf("list open tasks: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	newAssignments := o.engine.Route(tasks, o.ledgerValues())
	for _, a := range newAssignments {
		o.ledger[a.TaskID] = a
	}
	return newAssignments, nil
}

// Assignments returns every assignment made so far, oldest first.
func (o *Orchestrator) Assignments() []models.Assignment {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.ledgerValues()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssignedAt.Before(out[j].AssignedAt)
	})
	return out
}

// ledgerValues snapshots the assignment ledger. Caller must hold o.mu.
func (o *Orchestrator) ledgerValues() []models.Assignment {
	out := make([]models.Assignment, 0, len(o.ledger))
	for _, a := range o.ledger {
		out = append(out, a)
	}
	return out
}

// RunWaterSupervisor checks a building's tank level, creates refill tasks on
// LOW or CRITICAL, and records a notification tied to the first task it
// actually created.
func (o *Orchestrator) RunWaterSupervisor(ctx context.Context, buildingID string) (models.WaterRunResult, error) {
	building, ok := o.sites.Building(buildingID)
	if !ok {
		return models.WaterRunResult{}, fmt.Errorf("building %s not found", buildingID)
	}

	result := models.WaterRunResult{BuildingID: buildingID, CreatedTasks: []models.Task{}}

	if forecast, err := o.demand.AssessDemand(ctx, buildingID, 24); err != nil {
		o.logger.Warnf("Demand forecast unavailable for %s: %v", buildingID, err)
	} else {
		result.Forecast = &forecast
	}

	status := o.cache.TankStatus(buildingID, building.Tank)
	result.TankStatus = status

	var in *store.CreateTaskInput
	switch status.LevelState {
	case assets.LevelCritical:
		in = &store.CreateTaskInput{
			Title:       "Emergency tanker refill",
			Description: fmt.Sprintf("Tank CRITICAL (%.1f%%)", status.LevelPercentage),
			Priority:    models.PriorityCritical,
			SLAHours:    2,
		}
	case assets.LevelLow:
		in = &store.CreateTaskInput{
			Title:       "Schedule tanker refill",
			Description: fmt.Sprintf("Tank LOW (%.1f%%)", status.LevelPercentage),
			Priority:    models.PriorityHigh,
			SLAHours:    6,
		}
	}
	if in == nil {
		o.logger.Infof("Water supervisor for %s: tank %s, no action", buildingID, status.LevelState)
		return result, nil
	}

	in.AssetType = "water"
	in.AssetID = building.Tank
	in.BuildingID = buildingID

	task, created, err := o.store.CreateTask(ctx, *in)
	if err != nil {
		return result, fmt.Errorf("create refill task: %w", err)
	}
	if created {
		result.CreatedTasks = append(result.CreatedTasks, task)
		if o.notifier != nil {
			n, err := o.notifier.TankAlert(ctx, status, task.TaskID)
			if err != nil {
				o.logger.Errorf("Tank alert notification failed: %v", err)
			} else {
				result.Notification = &n
			}
		}
	} else {
		o.logger.Infof("Refill task already open for %s (%s)", building.Tank, task.TaskID)
	}
	return result, nil
}

func slaOrDefault(sla *int, def int) int {
	if sla != nil {
		return *sla
	}
	return def
}
