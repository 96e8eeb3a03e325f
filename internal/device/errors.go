package device

import "errors"

var (
	// ErrDeviceNotFound indicates the device does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrRuleNotFound indicates the alert rule does not exist.
	ErrRuleNotFound = errors.New("device: alert rule not found")
)
