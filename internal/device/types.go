package device

import (
	"time"

	"github.com/kestrelworks/aquamon-core/internal/access"
)

// Status is the lifecycle state of a device.
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusInactive    Status = "INACTIVE"
	StatusError       Status = "ERROR"
	StatusMaintenance Status = "MAINTENANCE"
)

// IsValidStatus reports whether s is a known device status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusError, StatusMaintenance:
		return true
	}
	return false
}

// settableStatuses are the statuses a user may set directly. ERROR is
// reserved for the system reporting a fault.
var settableStatuses = map[Status]bool{
	StatusActive:      true,
	StatusInactive:    true,
	StatusMaintenance: true,
}

// IsSettableStatus reports whether a user may set s on a device.
func IsSettableStatus(s Status) bool {
	return settableStatuses[s]
}

// Device is a registered monitoring unit owned by exactly one user.
type Device struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    Status    `json:"status"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the principal owns this device.
func (d *Device) OwnedBy(p *access.Principal) bool {
	return p != nil && d.OwnerID == p.ID
}

// WaterDataPoint is one water-quality reading from a device's sensor array.
type WaterDataPoint struct {
	ID              string    `json:"id"`
	DeviceID        string    `json:"deviceId"`
	Timestamp       time.Time `json:"timestamp"`
	Temperature     float64   `json:"temperature"`
	PH              float64   `json:"ph"`
	DissolvedOxygen float64   `json:"dissolvedOxygen"`
	Turbidity       float64   `json:"turbidity"`
}

// LightDataPoint is one ambient light intensity reading.
type LightDataPoint struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"deviceId"`
	Timestamp time.Time `json:"timestamp"`
	Intensity float64   `json:"intensity"`
}

// PumpAction is a command sent to a device's pump.
type PumpAction string

const (
	PumpOn   PumpAction = "ON"
	PumpOff  PumpAction = "OFF"
	PumpAuto PumpAction = "AUTO"
)

// IsValidPumpAction reports whether a is a known pump action.
func IsValidPumpAction(a PumpAction) bool {
	switch a {
	case PumpOn, PumpOff, PumpAuto:
		return true
	}
	return false
}

// PumpLog records one pump command issued against a device. Duration is in
// seconds and only meaningful for timed ON commands.
type PumpLog struct {
	ID        string     `json:"id"`
	DeviceID  string     `json:"deviceId"`
	Action    PumpAction `json:"action"`
	Duration  *int       `json:"duration,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Metric names a water or light measurement an alert rule can watch.
type Metric string

const (
	MetricTemperature     Metric = "temperature"
	MetricPH              Metric = "ph"
	MetricDissolvedOxygen Metric = "dissolvedOxygen"
	MetricTurbidity       Metric = "turbidity"
	MetricLightIntensity  Metric = "lightIntensity"
)

// IsValidMetric reports whether m is a known alert metric.
func IsValidMetric(m Metric) bool {
	switch m {
	case MetricTemperature, MetricPH, MetricDissolvedOxygen, MetricTurbidity, MetricLightIntensity:
		return true
	}
	return false
}

// Operator compares a reading against an alert rule's threshold.
type Operator string

const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "=="
)

// IsValidOperator reports whether o is a known comparison operator.
func IsValidOperator(o Operator) bool {
	switch o {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpEqual:
		return true
	}
	return false
}

// Severity grades how serious a triggered alert is.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// IsValidSeverity reports whether s is a known severity.
func IsValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AlertRule is a per-device threshold watch owned by the device's owner.
type AlertRule struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	DeviceID    string    `json:"deviceId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Metric      Metric    `json:"metric"`
	Operator    Operator  `json:"operator"`
	Threshold   float64   `json:"threshold"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Matches evaluates the rule against a reading value.
func (r *AlertRule) Matches(value float64) bool {
	switch r.Operator {
	case OpGreater:
		return value > r.Threshold
	case OpLess:
		return value < r.Threshold
	case OpGreaterEqual:
		return value >= r.Threshold
	case OpLessEqual:
		return value <= r.Threshold
	case OpEqual:
		return value == r.Threshold
	}
	return false
}
