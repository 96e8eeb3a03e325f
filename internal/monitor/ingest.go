package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/mqtt"
)

// Subscriber is the broker side the ingestor needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// ingestTimeout bounds how long one reading may take to store.
const ingestTimeout = 10 * time.Second

// Ingestor consumes telemetry that devices publish over the broker and
// feeds it through the service's record path.
type Ingestor struct {
	service *Service
	logger  *logging.Logger
}

// NewIngestor creates a telemetry ingestor.
func NewIngestor(service *Service, logger *logging.Logger) *Ingestor {
	return &Ingestor{service: service, logger: logger}
}

// Start subscribes to the telemetry topics for every device.
func (i *Ingestor) Start(sub Subscriber, qos byte) error {
	topics := mqtt.Topics{}

	if err := sub.Subscribe(topics.AllWaterTelemetry(), qos, i.handleWater); err != nil {
		return fmt.Errorf("subscribing to water telemetry: %w", err)
	}
	if err := sub.Subscribe(topics.AllLightTelemetry(), qos, i.handleLight); err != nil {
		return fmt.Errorf("subscribing to light telemetry: %w", err)
	}

	i.logger.Info("telemetry ingest started")
	return nil
}

// waterMessage is the payload a device publishes on its water topic.
type waterMessage struct {
	Temperature     float64    `json:"temperature"`
	PH              float64    `json:"ph"`
	DissolvedOxygen float64    `json:"dissolvedOxygen"`
	Turbidity       float64    `json:"turbidity"`
	Timestamp       *time.Time `json:"timestamp"`
}

// lightMessage is the payload a device publishes on its light topic.
type lightMessage struct {
	Intensity float64    `json:"intensity"`
	Timestamp *time.Time `json:"timestamp"`
}

func (i *Ingestor) handleWater(topic string, payload []byte) error {
	deviceID := mqtt.Topics{}.DeviceID(topic)
	if deviceID == "" {
		return fmt.Errorf("unrecognised telemetry topic %q", topic)
	}

	var msg waterMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding water telemetry from %s: %w", deviceID, err)
	}

	point := &device.WaterDataPoint{
		DeviceID:        deviceID,
		Temperature:     msg.Temperature,
		PH:              msg.PH,
		DissolvedOxygen: msg.DissolvedOxygen,
		Turbidity:       msg.Turbidity,
	}
	if msg.Timestamp != nil {
		point.Timestamp = msg.Timestamp.UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	if err := i.service.RecordWaterReading(ctx, point); err != nil {
		return fmt.Errorf("recording water telemetry from %s: %w", deviceID, err)
	}
	return nil
}

func (i *Ingestor) handleLight(topic string, payload []byte) error {
	deviceID := mqtt.Topics{}.DeviceID(topic)
	if deviceID == "" {
		return fmt.Errorf("unrecognised telemetry topic %q", topic)
	}

	var msg lightMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding light telemetry from %s: %w", deviceID, err)
	}

	point := &device.LightDataPoint{
		DeviceID:  deviceID,
		Intensity: msg.Intensity,
	}
	if msg.Timestamp != nil {
		point.Timestamp = msg.Timestamp.UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	if err := i.service.RecordLightReading(ctx, point); err != nil {
		return fmt.Errorf("recording light telemetry from %s: %w", deviceID, err)
	}
	return nil
}
