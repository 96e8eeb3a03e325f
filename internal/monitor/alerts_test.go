package monitor

import (
	"context"
	"testing"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/device"
)

func validRuleInput(deviceID string) CreateAlertRuleInput {
	return CreateAlertRuleInput{
		DeviceID:  deviceID,
		Name:      "High temperature",
		Metric:    device.MetricTemperature,
		Operator:  device.OpGreater,
		Threshold: 28,
		Severity:  device.SeverityHigh,
	}
}

func TestCreateAlertRule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "usr-alice")
	d := env.seedDevice(t, alice, "Tank")

	rule, err := env.service.CreateAlertRule(ctx, alice, validRuleInput(d.ID))
	if err != nil {
		t.Fatalf("CreateAlertRule: %v", err)
	}
	if rule.OwnerID != "usr-alice" {
		t.Errorf("rule owner = %q, want the device owner", rule.OwnerID)
	}
	if rule.DeviceID != d.ID {
		t.Errorf("rule device = %q, want %q", rule.DeviceID, d.ID)
	}
}

func TestCreateAlertRule_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "usr-alice")
	d := env.seedDevice(t, alice, "Tank")

	tests := []struct {
		name   string
		mutate func(*CreateAlertRuleInput)
	}{
		{"short name", func(in *CreateAlertRuleInput) { in.Name = "ab" }},
		{"unknown metric", func(in *CreateAlertRuleInput) { in.Metric = "salinity" }},
		{"unknown operator", func(in *CreateAlertRuleInput) { in.Operator = "!=" }},
		{"unknown severity", func(in *CreateAlertRuleInput) { in.Severity = "FATAL" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRuleInput(d.ID)
			tt.mutate(&in)
			_, err := env.service.CreateAlertRule(ctx, alice, in)
			if access.KindOf(err) != access.KindValidationFailed {
				t.Errorf("kind = %q, want validation_failed", access.KindOf(err))
			}
		})
	}
}

func TestCreateAlertRule_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "usr-alice")
	bob := env.seedUser(t, "usr-bob")
	d := env.seedDevice(t, alice, "Tank")

	if _, err := env.service.CreateAlertRule(ctx, bob, validRuleInput(d.ID)); access.KindOf(err) != access.KindForbidden {
		t.Errorf("non-owner kind = %q, want forbidden", access.KindOf(err))
	}
	if _, err := env.service.CreateAlertRule(ctx, alice, validRuleInput("dev-missing")); access.KindOf(err) != access.KindNotFound {
		t.Errorf("missing device kind = %q, want not_found", access.KindOf(err))
	}
}

func TestListAlertRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "usr-alice")
	bob := env.seedUser(t, "usr-bob")
	aliceTank := env.seedDevice(t, alice, "Alice Tank")
	bobTank := env.seedDevice(t, bob, "Bob Tank")

	if _, err := env.service.CreateAlertRule(ctx, alice, validRuleInput(aliceTank.ID)); err != nil {
		t.Fatalf("CreateAlertRule: %v", err)
	}
	if _, err := env.service.CreateAlertRule(ctx, bob, validRuleInput(bobTank.ID)); err != nil {
		t.Fatalf("CreateAlertRule: %v", err)
	}

	rules, err := env.service.ListAlertRules(ctx, alice)
	if err != nil {
		t.Fatalf("ListAlertRules: %v", err)
	}
	if len(rules) != 1 || rules[0].OwnerID != "usr-alice" {
		t.Errorf("alice sees %+v, want only her rule", rules)
	}

	deviceRules, err := env.service.ListDeviceAlertRules(ctx, alice, aliceTank.ID)
	if err != nil {
		t.Fatalf("ListDeviceAlertRules: %v", err)
	}
	if len(deviceRules) != 1 {
		t.Errorf("device rules = %d, want 1", len(deviceRules))
	}

	if _, err := env.service.ListDeviceAlertRules(ctx, alice, bobTank.ID); access.KindOf(err) != access.KindForbidden {
		t.Errorf("non-owner device rules kind = %q, want forbidden", access.KindOf(err))
	}
}

func TestDeleteAlertRule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "usr-alice")
	bob := env.seedUser(t, "usr-bob")
	d := env.seedDevice(t, alice, "Tank")

	rule, err := env.service.CreateAlertRule(ctx, alice, validRuleInput(d.ID))
	if err != nil {
		t.Fatalf("CreateAlertRule: %v", err)
	}

	if err := env.service.DeleteAlertRule(ctx, bob, rule.ID); access.KindOf(err) != access.KindForbidden {
		t.Errorf("non-owner delete kind = %q, want forbidden", access.KindOf(err))
	}

	if err := env.service.DeleteAlertRule(ctx, alice, rule.ID); err != nil {
		t.Fatalf("DeleteAlertRule: %v", err)
	}
	if err := env.service.DeleteAlertRule(ctx, alice, rule.ID); access.KindOf(err) != access.KindNotFound {
		t.Errorf("delete twice kind = %q, want not_found", access.KindOf(err))
	}
}
