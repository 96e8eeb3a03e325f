package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteWaterReading mirrors one water-quality reading. Non-blocking; the
// point is batched and sent asynchronously.
func (c *Client) WriteWaterReading(deviceID string, temperature, ph, dissolvedOxygen, turbidity float64, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"water_quality",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"temperature":      temperature,
			"ph":               ph,
			"dissolved_oxygen": dissolvedOxygen,
			"turbidity":        turbidity,
		},
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WriteLightReading mirrors one light intensity reading.
func (c *Client) WriteLightReading(deviceID string, intensity float64, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"light",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"intensity": intensity,
		},
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WritePumpEvent records a pump command for operational dashboards.
func (c *Client) WritePumpEvent(deviceID, action string, durationSeconds int, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"count": 1,
	}
	if durationSeconds > 0 {
		fields["duration_seconds"] = durationSeconds
	}

	point := write.NewPoint(
		"pump_events",
		map[string]string{
			"device_id": deviceID,
			"action":    action,
		},
		fields,
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}
