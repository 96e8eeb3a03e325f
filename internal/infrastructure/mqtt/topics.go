package mqtt

import "strings"

// Topic layout:
//
//	aquamon/system/status                     backend online/offline (retained)
//	aquamon/devices/{id}/pump/set             pump command, backend -> device
//	aquamon/devices/{id}/telemetry/water      water readings, device -> backend
//	aquamon/devices/{id}/telemetry/light      light readings, device -> backend
const topicPrefix = "aquamon"

// Topics builds the topic strings used across the system. The zero value
// is ready to use.
type Topics struct{}

// SystemStatus is the retained backend status topic.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}

// PumpCommand is the command topic for one device's pump.
func (Topics) PumpCommand(deviceID string) string {
	return topicPrefix + "/devices/" + deviceID + "/pump/set"
}

// WaterTelemetry is the topic a device publishes water readings to.
func (Topics) WaterTelemetry(deviceID string) string {
	return topicPrefix + "/devices/" + deviceID + "/telemetry/water"
}

// LightTelemetry is the topic a device publishes light readings to.
func (Topics) LightTelemetry(deviceID string) string {
	return topicPrefix + "/devices/" + deviceID + "/telemetry/light"
}

// AllWaterTelemetry matches water readings from every device.
func (Topics) AllWaterTelemetry() string {
	return topicPrefix + "/devices/+/telemetry/water"
}

// AllLightTelemetry matches light readings from every device.
func (Topics) AllLightTelemetry() string {
	return topicPrefix + "/devices/+/telemetry/light"
}

// DeviceID extracts the device segment from a device-scoped topic, or ""
// when the topic does not match the layout.
func (Topics) DeviceID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[0] != topicPrefix || parts[1] != "devices" {
		return ""
	}
	return parts[2]
}
