package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"system status", topics.SystemStatus(), "aquamon/system/status"},
		{"pump command", topics.PumpCommand("dev-abc123"), "aquamon/devices/dev-abc123/pump/set"},
		{"water telemetry", topics.WaterTelemetry("dev-abc123"), "aquamon/devices/dev-abc123/telemetry/water"},
		{"light telemetry", topics.LightTelemetry("dev-abc123"), "aquamon/devices/dev-abc123/telemetry/light"},
		{"all water", topics.AllWaterTelemetry(), "aquamon/devices/+/telemetry/water"},
		{"all light", topics.AllLightTelemetry(), "aquamon/devices/+/telemetry/light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopicsDeviceID(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		topic string
		want  string
	}{
		{"aquamon/devices/dev-abc123/telemetry/water", "dev-abc123"},
		{"aquamon/devices/dev-abc123/pump/set", "dev-abc123"},
		{"aquamon/system/status", ""},
		{"other/devices/dev-abc123/telemetry/water", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := topics.DeviceID(tt.topic); got != tt.want {
			t.Errorf("DeviceID(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}
