// Package predict defines the interfaces to the external predictive models
// (failure risk, demand forecast) and ships simulated implementations for
// deployments where the trained artifacts are not wired in.
package predict

import (
	"context"
	"errors"

	"monitoring-service/internal/models"
)

// ErrModelUnavailable indicates the model artifacts are missing or not
// trained. Callers degrade to a no-action decision, never fail the sweep.
var ErrModelUnavailable = errors.New("model not trained/available")

// RiskModel scores failure risk for a pump over a horizon.
type RiskModel interface {
	AssessFailureRisk(ctx context.Context, assetID string, horizonHours int) (models.RiskAssessment, error)
}

// DemandModel forecasts water demand for a building over a horizon.
type DemandModel interface {
	AssessDemand(ctx context.Context, buildingID string, horizonHours int) (models.DemandAssessment, error)
}
