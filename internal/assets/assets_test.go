package assets

import (
	"testing"
	"time"
)

func TestLevelState(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, LevelCritical},
		{10, LevelCritical},
		{10.1, LevelLow},
		{25, LevelLow},
		{25.1, LevelNormal},
		{80, LevelNormal},
	}
	for _, tt := range tests {
		if got := LevelState(tt.pct); got != tt.want {
			t.Errorf("LevelState(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestCacheKeepsLatestReading(t *testing.T) {
	c := NewCache()
	base := time.Now().UTC()

	c.Record(Reading{AssetID: "TANK_BLD_001", Metric: MetricTankLevel, Value: 40, Timestamp: base})
	c.Record(Reading{AssetID: "TANK_BLD_001", Metric: MetricTankLevel, Value: 20, Timestamp: base.Add(time.Minute)})

	r, ok := c.Latest("TANK_BLD_001", MetricTankLevel)
	if !ok {
		t.Fatal("reading not found")
	}
	if r.Value != 20 {
		t.Fatalf("latest value = %v, want 20", r.Value)
	}

	// Late-arriving stale reading must not win.
	c.Record(Reading{AssetID: "TANK_BLD_001", Metric: MetricTankLevel, Value: 90, Timestamp: base.Add(-time.Hour)})
	r, _ = c.Latest("TANK_BLD_001", MetricTankLevel)
	if r.Value != 20 {
		t.Fatalf("stale reading replaced newer one: value = %v", r.Value)
	}
}

func TestCacheSeparatesAssetAndMetric(t *testing.T) {
	c := NewCache()
	c.Record(Reading{AssetID: "TANK_BLD_001", Metric: MetricTankLevel, Value: 50})
	c.Record(Reading{AssetID: "TANK_BLD_002", Metric: MetricTankLevel, Value: 8})
	c.Record(Reading{AssetID: "TANK_BLD_001", Metric: "temperature", Value: 31})

	if r, _ := c.Latest("TANK_BLD_001", MetricTankLevel); r.Value != 50 {
		t.Fatalf("TANK_BLD_001 level = %v, want 50", r.Value)
	}
	if r, _ := c.Latest("TANK_BLD_002", MetricTankLevel); r.Value != 8 {
		t.Fatalf("TANK_BLD_002 level = %v, want 8", r.Value)
	}
	if _, ok := c.Latest("TANK_BLD_003", MetricTankLevel); ok {
		t.Fatal("unknown asset returned a reading")
	}
}

func TestCacheReadings(t *testing.T) {
	c := NewCache()
	if got := c.Readings("PUMP_A"); len(got) != 0 {
		t.Fatalf("empty cache returned %d readings", len(got))
	}

	c.Record(Reading{AssetID: "PUMP_A", Metric: "vibration", Value: 4.2})
	c.Record(Reading{AssetID: "PUMP_A", Metric: "pressure", Value: 3.8})
	c.Record(Reading{AssetID: "PUMP_B", Metric: "vibration", Value: 1.1})

	got := c.Readings("PUMP_A")
	if len(got) != 2 {
		t.Fatalf("readings = %d, want 2", len(got))
	}
	if got[0].Metric != "pressure" || got[1].Metric != "vibration" {
		t.Fatalf("order = %s, %s, want pressure, vibration", got[0].Metric, got[1].Metric)
	}
}

func TestTankStatus(t *testing.T) {
	c := NewCache()

	status := c.TankStatus("BLD_001", "TANK_BLD_001")
	if status.LevelState != LevelUnknown {
		t.Fatalf("no-reading state = %s, want UNKNOWN", status.LevelState)
	}

	c.Record(Reading{AssetID: "TANK_BLD_001", BuildingID: "BLD_001", Metric: MetricTankLevel, Value: 18})
	status = c.TankStatus("BLD_001", "TANK_BLD_001")
	if status.LevelState != LevelLow {
		t.Fatalf("state = %s, want LOW", status.LevelState)
	}
	if status.LevelPercentage != 18 {
		t.Fatalf("level = %v, want 18", status.LevelPercentage)
	}
	if status.TankID != "TANK_BLD_001" || status.BuildingID != "BLD_001" {
		t.Fatalf("ids = %s/%s", status.TankID, status.BuildingID)
	}
}
