package device

import (
	"context"
	"errors"
	"testing"
)

func TestAlertRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	seedOwner(t, db, "usr-owner")
	devices := NewRepository(db)
	alerts := NewAlertRepository(db)
	ctx := context.Background()

	d := seedDevice(t, devices, "usr-owner", "Tank")

	rule := &AlertRule{
		OwnerID:     "usr-owner",
		DeviceID:    d.ID,
		Name:        "High temperature",
		Description: "Tank running hot",
		Metric:      MetricTemperature,
		Operator:    OpGreater,
		Threshold:   28,
		Severity:    SeverityHigh,
	}
	if err := alerts.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rule.ID == "" {
		t.Fatal("Create should assign an ID")
	}

	got, err := alerts.GetByID(ctx, rule.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Metric != MetricTemperature || got.Operator != OpGreater || got.Threshold != 28 {
		t.Errorf("rule did not round-trip: %+v", got)
	}
	if got.Severity != SeverityHigh {
		t.Errorf("severity = %q, want HIGH", got.Severity)
	}
}

func TestAlertRepository_OwnerID(t *testing.T) {
	db := testDB(t)
	seedOwner(t, db, "usr-owner")
	devices := NewRepository(db)
	alerts := NewAlertRepository(db)
	ctx := context.Background()

	d := seedDevice(t, devices, "usr-owner", "Tank")
	rule := &AlertRule{
		OwnerID: "usr-owner", DeviceID: d.ID, Name: "Low pH",
		Metric: MetricPH, Operator: OpLess, Threshold: 6.5, Severity: SeverityMedium,
	}
	if err := alerts.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ownerID, err := alerts.OwnerID(ctx, rule.ID)
	if err != nil {
		t.Fatalf("OwnerID: %v", err)
	}
	if ownerID != "usr-owner" {
		t.Errorf("ownerID = %q, want usr-owner", ownerID)
	}

	if _, err := alerts.OwnerID(ctx, "alr-missing"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("OwnerID missing = %v, want ErrRuleNotFound", err)
	}
}

func TestAlertRepository_ListScoped(t *testing.T) {
	db := testDB(t)
	seedOwner(t, db, "usr-alice")
	seedOwner(t, db, "usr-bob")
	devices := NewRepository(db)
	alerts := NewAlertRepository(db)
	ctx := context.Background()

	aliceTank := seedDevice(t, devices, "usr-alice", "Alice Tank")
	bobTank := seedDevice(t, devices, "usr-bob", "Bob Tank")

	mk := func(owner, deviceID, name string) {
		rule := &AlertRule{
			OwnerID: owner, DeviceID: deviceID, Name: name,
			Metric: MetricTurbidity, Operator: OpGreaterEqual, Threshold: 5, Severity: SeverityLow,
		}
		if err := alerts.Create(ctx, rule); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	mk("usr-alice", aliceTank.ID, "Alice rule 1")
	mk("usr-alice", aliceTank.ID, "Alice rule 2")
	mk("usr-bob", bobTank.ID, "Bob rule")

	byDevice, err := alerts.ListByDevice(ctx, aliceTank.ID)
	if err != nil {
		t.Fatalf("ListByDevice: %v", err)
	}
	if len(byDevice) != 2 {
		t.Errorf("alice tank rules = %d, want 2", len(byDevice))
	}

	byOwner, err := alerts.ListByOwner(ctx, "usr-bob")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(byOwner) != 1 || byOwner[0].Name != "Bob rule" {
		t.Errorf("bob rules = %+v, want just Bob rule", byOwner)
	}
}

func TestAlertRepository_Delete(t *testing.T) {
	db := testDB(t)
	seedOwner(t, db, "usr-owner")
	devices := NewRepository(db)
	alerts := NewAlertRepository(db)
	ctx := context.Background()

	d := seedDevice(t, devices, "usr-owner", "Tank")
	rule := &AlertRule{
		OwnerID: "usr-owner", DeviceID: d.ID, Name: "Rule",
		Metric: MetricLightIntensity, Operator: OpEqual, Threshold: 0, Severity: SeverityCritical,
	}
	if err := alerts.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := alerts.Delete(ctx, rule.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := alerts.GetByID(ctx, rule.ID); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrRuleNotFound", err)
	}
	if err := alerts.Delete(ctx, rule.ID); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("Delete twice = %v, want ErrRuleNotFound", err)
	}
}
