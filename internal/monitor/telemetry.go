package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/device"
)

// Series query limits.
const (
	defaultSeriesLimit = 50
	minSeriesLimit     = 1
	maxSeriesLimit     = 100
)

// SeriesQuery bounds a telemetry request. Limit 0 means the default; From
// and To are optional inclusive bounds.
type SeriesQuery struct {
	Limit int
	From  *time.Time
	To    *time.Time
}

func (q SeriesQuery) normalize() (SeriesQuery, error) {
	if q.Limit == 0 {
		q.Limit = defaultSeriesLimit
	}
	if q.Limit < minSeriesLimit || q.Limit > maxSeriesLimit {
		return q, access.Validation(fmt.Sprintf("limit must be between %d and %d", minSeriesLimit, maxSeriesLimit))
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return q, access.InvalidRange("time range start must not be after its end")
	}
	return q, nil
}

// WaterSeries returns an owned device's water readings, newest first.
func (s *Service) WaterSeries(ctx context.Context, p *access.Principal, deviceID string, q SeriesQuery) ([]device.WaterDataPoint, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	q, err := q.normalize()
	if err != nil {
		return nil, err
	}

	points, err := s.water.ListByDevice(ctx, deviceID, q.Limit, q.From, q.To)
	if err != nil {
		return nil, access.Internal(err)
	}
	return points, nil
}

// LatestWaterData returns an owned device's most recent water reading, or
// nil when none has been recorded.
func (s *Service) LatestWaterData(ctx context.Context, p *access.Principal, deviceID string) (*device.WaterDataPoint, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	point, err := s.water.Latest(ctx, deviceID)
	if err != nil {
		return nil, access.Internal(err)
	}
	return point, nil
}

// LatestWaterReadings returns recent water readings across the caller's
// devices, newest first. When deviceID is set the result is scoped to that
// single owned device.
func (s *Service) LatestWaterReadings(ctx context.Context, p *access.Principal, deviceID string, q SeriesQuery) ([]device.WaterDataPoint, error) {
	if deviceID != "" {
		return s.WaterSeries(ctx, p, deviceID, q)
	}

	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return nil, err
	}

	q, err := q.normalize()
	if err != nil {
		return nil, err
	}

	points, err := s.water.ListByOwner(ctx, p.ID, q.Limit, q.From, q.To)
	if err != nil {
		return nil, access.Internal(err)
	}
	return points, nil
}

// LightSeries returns an owned device's light readings, newest first.
func (s *Service) LightSeries(ctx context.Context, p *access.Principal, deviceID string, q SeriesQuery) ([]device.LightDataPoint, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	q, err := q.normalize()
	if err != nil {
		return nil, err
	}

	points, err := s.light.ListByDevice(ctx, deviceID, q.Limit, q.From, q.To)
	if err != nil {
		return nil, access.Internal(err)
	}
	return points, nil
}

// LatestLightIntensity returns an owned device's most recent light reading,
// or nil when none has been recorded.
func (s *Service) LatestLightIntensity(ctx context.Context, p *access.Principal, deviceID string) (*device.LightDataPoint, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	point, err := s.light.Latest(ctx, deviceID)
	if err != nil {
		return nil, access.Internal(err)
	}
	return point, nil
}

// RecordWaterReading stores a device-originated water reading and mirrors
// it to the time-series store. Called from the telemetry ingest path, not
// from user requests; the device itself is the trusted source.
func (s *Service) RecordWaterReading(ctx context.Context, p *device.WaterDataPoint) error {
	if _, err := s.devices.OwnerID(ctx, p.DeviceID); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return access.NotFound("device")
		}
		return access.Internal(err)
	}

	if err := s.water.Insert(ctx, p); err != nil {
		return access.Internal(err)
	}

	if s.mirror != nil {
		s.mirror.WriteWaterReading(p.DeviceID, p.Temperature, p.PH, p.DissolvedOxygen, p.Turbidity, p.Timestamp)
	}
	return nil
}

// RecordLightReading stores a device-originated light reading and mirrors
// it to the time-series store.
func (s *Service) RecordLightReading(ctx context.Context, p *device.LightDataPoint) error {
	if _, err := s.devices.OwnerID(ctx, p.DeviceID); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return access.NotFound("device")
		}
		return access.Internal(err)
	}

	if err := s.light.Insert(ctx, p); err != nil {
		return access.Internal(err)
	}

	if s.mirror != nil {
		s.mirror.WriteLightReading(p.DeviceID, p.Intensity, p.Timestamp)
	}
	return nil
}
