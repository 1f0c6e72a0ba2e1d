// Package ingest consumes sensor readings from Kafka, feeds the latest-
// reading cache, and triggers the water supervisor on LOW/CRITICAL tank
// levels.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"monitoring-service/internal/assets"
	"monitoring-service/internal/logging"
	"monitoring-service/internal/workflow"
)

// Consumer reads sensor messages from a Kafka topic.
type Consumer struct {
	reader *kafka.Reader
	cache  *assets.Cache
	orch   *workflow.Orchestrator
	logger *logging.Logger
}

type sensorMessage struct {
	AssetID    string  `json:"asset_id"`
	BuildingID string  `json:"building_id"`
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	Timestamp  string  `json:"timestamp"`
}

// NewConsumer builds a consumer for the given broker and topic.
func NewConsumer(broker, topic, groupID string, cache *assets.Cache, orch *workflow.Orchestrator, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, cache: cache, orch: orch, logger: logger}
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Infof("Sensor consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Infof("Sensor consumer stopped")
				return
			}
			c.logger.Errorf("Read message failed: %v", err)
			continue
		}
		c.handle(ctx, msg.Value)
	}
}

func (c *Consumer) handle(ctx context.Context, value []byte) {
	var m sensorMessage
	if err := json.Unmarshal(value, &m); err != nil {
		c.logger.Errorf("Unmarshal sensor message failed: %v", err)
		return
	}
	if m.AssetID == "" || m.Metric == "" {
		c.logger.Errorf("Invalid sensor message: missing asset_id or metric")
		return
	}

	ts, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}
	c.cache.Record(assets.Reading{
		AssetID:    m.AssetID,
		BuildingID: m.BuildingID,
		Metric:     m.Metric,
		Value:      m.Value,
		Timestamp:  ts,
	})

	if m.Metric != assets.MetricTankLevel || m.BuildingID == "" {
		return
	}
	state := assets.LevelState(m.Value)
	if state != assets.LevelLow && state != assets.LevelCritical {
		return
	}

	c.logger.Warnf("Tank %s at %.1f%% (%s), running water supervisor for %s", m.AssetID, m.Value, state, m.BuildingID)
	if _, err := c.orch.RunWaterSupervisor(ctx, m.BuildingID); err != nil {
		c.logger.Errorf("Water supervisor run failed for %s: %v", m.BuildingID, err)
	}
}

// Close shuts the underlying reader down.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
