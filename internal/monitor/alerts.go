package monitor

import (
	"context"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/audit"
	"github.com/kestrelworks/aquamon-core/internal/device"
)

const (
	minRuleNameLength = 3
	maxRuleNameLength = 100
)

// CreateAlertRuleInput carries the fields for a new alert rule.
type CreateAlertRuleInput struct {
	DeviceID    string          `json:"deviceId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Metric      device.Metric   `json:"metric"`
	Operator    device.Operator `json:"operator"`
	Threshold   float64         `json:"threshold"`
	Severity    device.Severity `json:"severity"`
}

// CreateAlertRule attaches a threshold watch to an owned device. The rule's
// owner is always the device's owner, never taken from the request.
func (s *Service) CreateAlertRule(ctx context.Context, p *access.Principal, in CreateAlertRuleInput) (*device.AlertRule, error) {
	if err := s.requireDevice(ctx, p, in.DeviceID); err != nil {
		return nil, err
	}

	if len(in.Name) < minRuleNameLength || len(in.Name) > maxRuleNameLength {
		return nil, access.Validation("rule name must be between 3 and 100 characters")
	}
	if !device.IsValidMetric(in.Metric) {
		return nil, access.Validation("metric must be one of temperature, ph, dissolvedOxygen, turbidity, lightIntensity")
	}
	if !device.IsValidOperator(in.Operator) {
		return nil, access.Validation("operator must be one of >, <, >=, <=, ==")
	}
	if !device.IsValidSeverity(in.Severity) {
		return nil, access.Validation("severity must be one of LOW, MEDIUM, HIGH, CRITICAL")
	}

	rule := &device.AlertRule{
		OwnerID:     p.ID,
		DeviceID:    in.DeviceID,
		Name:        in.Name,
		Description: in.Description,
		Metric:      in.Metric,
		Operator:    in.Operator,
		Threshold:   in.Threshold,
		Severity:    in.Severity,
	}
	if err := s.alerts.Create(ctx, rule); err != nil {
		return nil, access.Internal(err)
	}

	s.logger.Info("alert rule created", "rule_id", rule.ID, "device_id", in.DeviceID)
	s.trail.Record(ctx, audit.ActionCreate, audit.EntityAlertRule, rule.ID, p.ID, nil)
	return rule, nil
}

// ListDeviceAlertRules returns an owned device's alert rules.
func (s *Service) ListDeviceAlertRules(ctx context.Context, p *access.Principal, deviceID string) ([]device.AlertRule, error) {
	if err := s.requireDevice(ctx, p, deviceID); err != nil {
		return nil, err
	}

	rules, err := s.alerts.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, access.Internal(err)
	}
	return rules, nil
}

// ListAlertRules returns all of the caller's alert rules across devices.
func (s *Service) ListAlertRules(ctx context.Context, p *access.Principal) ([]device.AlertRule, error) {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return nil, err
	}

	rules, err := s.alerts.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, access.Internal(err)
	}
	return rules, nil
}

// DeleteAlertRule removes one of the caller's alert rules.
func (s *Service) DeleteAlertRule(ctx context.Context, p *access.Principal, ruleID string) error {
	err := access.ResolveOwnership(ctx, p, s.alerts.OwnerID, ruleID, "alert rule", device.ErrRuleNotFound)
	if err != nil {
		return err
	}

	if err := s.alerts.Delete(ctx, ruleID); err != nil {
		return access.Internal(err)
	}

	s.logger.Info("alert rule deleted", "rule_id", ruleID)
	s.trail.Record(ctx, audit.ActionDelete, audit.EntityAlertRule, ruleID, p.ID, nil)
	return nil
}
