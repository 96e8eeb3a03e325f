package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/audit"
	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
)

// CommandPublisher is the broker link used for pump commands. Nil when the
// broker is not configured; commands then log locally only.
type CommandPublisher interface {
	PublishJSON(topic string, payload []byte) error
	IsConnected() bool
}

// TelemetryMirror duplicates readings into a time-series store. Nil when
// the mirror is disabled.
type TelemetryMirror interface {
	WriteWaterReading(deviceID string, temperature, ph, dissolvedOxygen, turbidity float64, timestamp time.Time)
	WriteLightReading(deviceID string, intensity float64, timestamp time.Time)
	WritePumpEvent(deviceID, action string, durationSeconds int, timestamp time.Time)
}

// Service implements the ownership-scoped monitoring operations.
type Service struct {
	devices device.Repository
	water   device.WaterRepository
	light   device.LightRepository
	pumps   device.PumpRepository
	alerts  device.AlertRepository

	publisher CommandPublisher
	mirror    TelemetryMirror
	trail     *audit.Trail

	logger *logging.Logger
}

// NewService creates a monitor service. publisher and mirror may be nil.
func NewService(
	devices device.Repository,
	water device.WaterRepository,
	light device.LightRepository,
	pumps device.PumpRepository,
	alerts device.AlertRepository,
	publisher CommandPublisher,
	mirror TelemetryMirror,
	logger *logging.Logger,
) *Service {
	return &Service{
		devices:   devices,
		water:     water,
		light:     light,
		pumps:     pumps,
		alerts:    alerts,
		publisher: publisher,
		mirror:    mirror,
		logger:    logger,
	}
}

// SetTrail enables activity trail recording. A nil trail records nothing.
func (s *Service) SetTrail(trail *audit.Trail) {
	s.trail = trail
}

// deviceOwner adapts the device repository to the ownership lookup shape.
func (s *Service) deviceOwner(ctx context.Context, id string) (string, error) {
	return s.devices.OwnerID(ctx, id)
}

// requireDevice runs the full ownership resolution for a device ID.
func (s *Service) requireDevice(ctx context.Context, p *access.Principal, deviceID string) error {
	return access.ResolveOwnership(ctx, p, s.deviceOwner, deviceID, "device", device.ErrDeviceNotFound)
}

// RegisterDeviceInput carries the fields for device registration.
type RegisterDeviceInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

const (
	minDeviceNameLength = 3
	maxDeviceNameLength = 100
)

// RegisterDevice creates a device owned by the caller.
func (s *Service) RegisterDevice(ctx context.Context, p *access.Principal, in RegisterDeviceInput) (*device.Device, error) {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return nil, err
	}

	if len(in.Name) < minDeviceNameLength || len(in.Name) > maxDeviceNameLength {
		return nil, access.Validation("device name must be between 3 and 100 characters")
	}
	if in.Type == "" {
		return nil, access.Validation("device type is required")
	}

	d := &device.Device{
		OwnerID:  p.ID,
		Name:     in.Name,
		Type:     in.Type,
		Location: in.Location,
	}
	if err := s.devices.Create(ctx, d); err != nil {
		return nil, access.Internal(err)
	}

	s.logger.Info("device registered", "device_id", d.ID, "owner_id", p.ID)
	s.trail.Record(ctx, audit.ActionCreate, audit.EntityDevice, d.ID, p.ID, map[string]any{"name": d.Name, "type": d.Type})
	return d, nil
}

// ListDevices returns the caller's devices, newest first. Other users'
// devices are invisible; an empty account gets an empty list.
func (s *Service) ListDevices(ctx context.Context, p *access.Principal) ([]device.Device, error) {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return nil, err
	}

	devices, err := s.devices.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, access.Internal(err)
	}
	return devices, nil
}

// Snapshot sizes for the device detail view.
const (
	detailWaterPoints = 50
	detailLightPoints = 50
	detailPumpLogs    = 20
)

// DeviceDetail is a device with recent activity attached.
type DeviceDetail struct {
	device.Device
	WaterData  []device.WaterDataPoint `json:"waterData"`
	LightData  []device.LightDataPoint `json:"lightData"`
	PumpLogs   []device.PumpLog        `json:"pumpLogs"`
	AlertRules []device.AlertRule      `json:"alertRules"`
}

// GetDevice returns one owned device with its recent readings, pump
// activity, and alert rules.
func (s *Service) GetDevice(ctx context.Context, p *access.Principal, deviceID string) (*DeviceDetail, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	d, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return nil, access.NotFound("device")
		}
		return nil, access.Internal(err)
	}

	detail := &DeviceDetail{Device: *d}

	if detail.WaterData, err = s.water.ListByDevice(ctx, deviceID, detailWaterPoints, nil, nil); err != nil {
		return nil, access.Internal(err)
	}
	if detail.LightData, err = s.light.ListByDevice(ctx, deviceID, detailLightPoints, nil, nil); err != nil {
		return nil, access.Internal(err)
	}
	if detail.PumpLogs, err = s.pumps.ListByDevice(ctx, deviceID, detailPumpLogs); err != nil {
		return nil, access.Internal(err)
	}
	if detail.AlertRules, err = s.alerts.ListByDevice(ctx, deviceID); err != nil {
		return nil, access.Internal(err)
	}

	return detail, nil
}

// UpdateDeviceInput carries optional device changes. Nil fields are left
// unchanged.
type UpdateDeviceInput struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Location *string `json:"location"`
}

// UpdateDevice changes an owned device's name, type, or location.
func (s *Service) UpdateDevice(ctx context.Context, p *access.Principal, deviceID string, in UpdateDeviceInput) (*device.Device, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	d, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return nil, access.NotFound("device")
		}
		return nil, access.Internal(err)
	}

	if in.Name != nil {
		if len(*in.Name) < minDeviceNameLength || len(*in.Name) > maxDeviceNameLength {
			return nil, access.Validation("device name must be between 3 and 100 characters")
		}
		d.Name = *in.Name
	}
	if in.Type != nil {
		if *in.Type == "" {
			return nil, access.Validation("device type cannot be empty")
		}
		d.Type = *in.Type
	}
	if in.Location != nil {
		d.Location = *in.Location
	}

	if err := s.devices.Update(ctx, d); err != nil {
		return nil, access.Internal(err)
	}

	s.trail.Record(ctx, audit.ActionUpdate, audit.EntityDevice, d.ID, p.ID, nil)
	return d, nil
}

// UpdateDeviceStatus sets an owned device's status. ERROR is reserved for
// the system and rejected here.
func (s *Service) UpdateDeviceStatus(ctx context.Context, p *access.Principal, deviceID string, status device.Status) (*device.Device, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	if !device.IsSettableStatus(status) {
		return nil, access.Validation("status must be ACTIVE, INACTIVE, or MAINTENANCE")
	}

	if err := s.devices.UpdateStatus(ctx, deviceID, status); err != nil {
		return nil, access.Internal(err)
	}

	d, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, access.Internal(err)
	}

	s.logger.Info("device status changed", "device_id", deviceID, "status", string(status))
	return d, nil
}

// DeleteDevice removes an owned device and all its data.
func (s *Service) DeleteDevice(ctx context.Context, p *access.Principal, deviceID string) error {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return err
	}

	if err := s.devices.Delete(ctx, deviceID); err != nil {
		return access.Internal(err)
	}

	s.logger.Info("device deleted", "device_id", deviceID, "owner_id", p.ID)
	s.trail.Record(ctx, audit.ActionDelete, audit.EntityDevice, deviceID, p.ID, nil)
	return nil
}
