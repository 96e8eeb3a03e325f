package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/audit"
	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/mqtt"
)

// PumpCommandInput carries a pump control request. Duration is an optional
// run time in seconds.
type PumpCommandInput struct {
	Action   device.PumpAction `json:"action"`
	Duration *int              `json:"duration,omitempty"`
}

// pumpCommandMessage is the wire shape published to the device.
type pumpCommandMessage struct {
	Action   string `json:"action"`
	Duration *int   `json:"duration,omitempty"`
	IssuedAt string `json:"issued_at"`
}

// ControlPump issues a pump command against an owned device. The command
// is logged first; broker delivery is best-effort and a broker outage does
// not fail the request.
func (s *Service) ControlPump(ctx context.Context, p *access.Principal, deviceID string, in PumpCommandInput) (*device.PumpLog, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	if !device.IsValidPumpAction(in.Action) {
		return nil, access.Validation("action must be ON, OFF, or AUTO")
	}
	if in.Duration != nil && *in.Duration < 1 {
		return nil, access.Validation("duration must be a positive number of seconds")
	}

	entry := &device.PumpLog{
		DeviceID:  deviceID,
		Action:    in.Action,
		Duration:  in.Duration,
		Timestamp: time.Now().UTC(),
	}
	if err := s.pumps.Insert(ctx, entry); err != nil {
		return nil, access.Internal(err)
	}

	s.publishPumpCommand(deviceID, entry)

	if s.mirror != nil {
		duration := 0
		if entry.Duration != nil {
			duration = *entry.Duration
		}
		s.mirror.WritePumpEvent(deviceID, string(entry.Action), duration, entry.Timestamp)
	}

	s.logger.Info("pump command issued",
		"device_id", deviceID, "action", string(entry.Action), "user_id", p.ID)
	s.trail.Record(ctx, audit.ActionPumpCommand, audit.EntityDevice, deviceID, p.ID,
		map[string]any{"action": string(entry.Action)})
	return entry, nil
}

func (s *Service) publishPumpCommand(deviceID string, entry *device.PumpLog) {
	if s.publisher == nil || !s.publisher.IsConnected() {
		s.logger.Warn("pump command not delivered, broker unavailable", "device_id", deviceID)
		return
	}

	msg := pumpCommandMessage{
		Action:   string(entry.Action),
		Duration: entry.Duration,
		IssuedAt: entry.Timestamp.Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encoding pump command", "error", err)
		return
	}

	topic := mqtt.Topics{}.PumpCommand(deviceID)
	if err := s.publisher.PublishJSON(topic, payload); err != nil {
		s.logger.Warn("publishing pump command", "device_id", deviceID, "error", err)
	}
}

// defaultPumpLogLimit is the standalone listing window; the device detail
// snapshot uses the smaller detailPumpLogs.
const defaultPumpLogLimit = 30

// PumpLogs returns an owned device's recent pump activity, newest first.
// Limit 0 means the default of 30; the cap is 100.
func (s *Service) PumpLogs(ctx context.Context, p *access.Principal, deviceID string, limit int) ([]device.PumpLog, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = defaultPumpLogLimit
	}
	if limit < minSeriesLimit || limit > maxSeriesLimit {
		return nil, access.Validation(fmt.Sprintf("limit must be between %d and %d", minSeriesLimit, maxSeriesLimit))
	}

	logs, err := s.pumps.ListByDevice(ctx, deviceID, limit)
	if err != nil {
		return nil, access.Internal(err)
	}
	return logs, nil
}
