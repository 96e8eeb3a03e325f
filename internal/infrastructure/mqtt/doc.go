// Package mqtt wraps paho.mqtt.golang for the broker link between the
// backend and monitoring devices.
//
// Two traffic flows pass through here:
//   - pump commands published to a device's command topic
//   - telemetry readings devices publish, which the backend subscribes to
//
// The client reconnects automatically and restores subscriptions after a
// broker outage. All methods are safe for concurrent use.
package mqtt
