package device

import (
	"testing"

	"github.com/kestrelworks/aquamon-core/internal/access"
)

func TestStatusValidation(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusInactive, StatusError, StatusMaintenance} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	if IsValidStatus("BROKEN") {
		t.Error("unknown status should not validate")
	}

	// ERROR is system-set only
	if IsSettableStatus(StatusError) {
		t.Error("ERROR must not be user-settable")
	}
	for _, s := range []Status{StatusActive, StatusInactive, StatusMaintenance} {
		if !IsSettableStatus(s) {
			t.Errorf("IsSettableStatus(%q) = false, want true", s)
		}
	}
}

func TestPumpActionValidation(t *testing.T) {
	for _, a := range []PumpAction{PumpOn, PumpOff, PumpAuto} {
		if !IsValidPumpAction(a) {
			t.Errorf("IsValidPumpAction(%q) = false, want true", a)
		}
	}
	if IsValidPumpAction("REVERSE") {
		t.Error("unknown pump action should not validate")
	}
}

func TestMetricOperatorSeverityValidation(t *testing.T) {
	metrics := []Metric{MetricTemperature, MetricPH, MetricDissolvedOxygen, MetricTurbidity, MetricLightIntensity}
	for _, m := range metrics {
		if !IsValidMetric(m) {
			t.Errorf("IsValidMetric(%q) = false, want true", m)
		}
	}
	if IsValidMetric("salinity") {
		t.Error("unknown metric should not validate")
	}

	for _, o := range []Operator{OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual} {
		if !IsValidOperator(o) {
			t.Errorf("IsValidOperator(%q) = false, want true", o)
		}
	}
	if IsValidOperator("!=") {
		t.Error("unknown operator should not validate")
	}

	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		if !IsValidSeverity(s) {
			t.Errorf("IsValidSeverity(%q) = false, want true", s)
		}
	}
	if IsValidSeverity("FATAL") {
		t.Error("unknown severity should not validate")
	}
}

func TestAlertRuleMatches(t *testing.T) {
	tests := []struct {
		op        Operator
		threshold float64
		value     float64
		want      bool
	}{
		{OpGreater, 28, 30, true},
		{OpGreater, 28, 28, false},
		{OpLess, 6.5, 6.0, true},
		{OpLess, 6.5, 6.5, false},
		{OpGreaterEqual, 28, 28, true},
		{OpLessEqual, 6.5, 6.5, true},
		{OpEqual, 0, 0, true},
		{OpEqual, 0, 0.1, false},
	}

	for _, tt := range tests {
		rule := &AlertRule{Operator: tt.op, Threshold: tt.threshold}
		if got := rule.Matches(tt.value); got != tt.want {
			t.Errorf("Matches(%v %s %v) = %v, want %v", tt.value, tt.op, tt.threshold, got, tt.want)
		}
	}
}

func TestDeviceOwnedBy(t *testing.T) {
	d := &Device{ID: "dev-1", OwnerID: "usr-alice"}

	if !d.OwnedBy(&access.Principal{ID: "usr-alice", Role: access.RoleUser}) {
		t.Error("owner should own their device")
	}
	if d.OwnedBy(&access.Principal{ID: "usr-bob", Role: access.RoleUser}) {
		t.Error("non-owner should not own the device")
	}
	if d.OwnedBy(nil) {
		t.Error("nil principal owns nothing")
	}
}
