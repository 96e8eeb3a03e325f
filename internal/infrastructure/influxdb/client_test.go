package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect with disabled config = %v, want ErrDisabled", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck on zero client = %v, want ErrNotConnected", err)
	}
}

func TestWrites_DisconnectedNoOp(t *testing.T) {
	c := &Client{}

	// must not panic on a disconnected client
	c.WriteWaterReading("dev-1", 24, 7, 8, 1.5, time.Now())
	c.WriteLightReading("dev-1", 300, time.Now())
	c.WritePumpEvent("dev-1", "ON", 30, time.Now())
	c.Flush()
}

func TestClose_ZeroClient(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close on zero client = %v, want nil", err)
	}
}
