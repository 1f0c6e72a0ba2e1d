// Package assets caches the latest sensor readings per asset, fed by the
// ingestion consumer and read by the water supervisor.
package assets

import (
	"sort"
	"strings"
	"sync"
	"time"

	"monitoring-service/internal/models"
)

// Tank level states.
const (
	LevelCritical = "CRITICAL"
	LevelLow      = "LOW"
	LevelNormal   = "NORMAL"
	LevelUnknown  = "UNKNOWN"
)

// MetricTankLevel is the metric name for tank level readings (percent full).
const MetricTankLevel = "tank_level"

// Reading is one sensor sample for an asset.
type Reading struct {
	AssetID    string    `json:"asset_id"`
	BuildingID string    `json:"building_id"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// Cache holds the latest reading per (asset, metric).
type Cache struct {
	mu     sync.RWMutex
	latest map[string]Reading
}

// NewCache creates an empty reading cache.
func NewCache() *Cache {
	return &Cache{latest: make(map[string]Reading)}
}

// Record stores a reading, replacing an older one for the same asset/metric.
func (c *Cache) Record(r Reading) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := r.AssetID + "|" + r.Metric
	if prev, ok := c.latest[key]; ok && prev.Timestamp.After(r.Timestamp) {
		return
	}
	c.latest[key] = r
}

// Readings returns the latest reading of every metric known for an asset,
// ordered by metric name.
func (c *Cache) Readings(assetID string) []Reading {
	c.mu.RLock()
	defer c.mu.RUnlock()
	prefix := assetID + "|"
	var out []Reading
	for key, r := range c.latest {
		if strings.HasPrefix(key, prefix) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metric < out[j].Metric })
	return out
}

// Latest returns the latest reading for an asset metric.
func (c *Cache) Latest(assetID, metric string) (Reading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.latest[assetID+"|"+metric]
	return r, ok
}

// TankStatus derives a building's tank status from the latest tank level
// reading. With no reading the state is UNKNOWN.
func (c *Cache) TankStatus(buildingID, tankID string) models.TankStatus {
	r, ok := c.Latest(tankID, MetricTankLevel)
	if !ok {
		return models.TankStatus{TankID: tankID, BuildingID: buildingID, LevelState: LevelUnknown}
	}
	return models.TankStatus{
		TankID:          tankID,
		BuildingID:      buildingID,
		LevelPercentage: r.Value,
		LevelState:      LevelState(r.Value),
		UpdatedAt:       r.Timestamp,
	}
}

// LevelState buckets a tank level percentage.
func LevelState(pct float64) string {
	switch {
	case pct <= 10:
		return LevelCritical
	case pct <= 25:
		return LevelLow
	default:
		return LevelNormal
	}
}
