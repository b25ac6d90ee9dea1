package config_test

import (
	"strings"
	"testing"

	"github.com/dmarroquin/warehousewatch/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("warehousewatch-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Probe.TimeoutSeconds != 10 {
		t.Errorf("expected default probe timeout 10, got %d", cfg.Probe.TimeoutSeconds)
	}
	if cfg.Telemetry.ServiceName != "warehousewatch-test" {
		t.Errorf("expected service name passthrough, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WAREHOUSEWATCH_SERVER_PORT", "9999")
	t.Setenv("WAREHOUSEWATCH_DATABASE_HOST", "db.internal")

	cfg, err := config.Load("warehousewatch-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected env override 9999, got %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected env override db.internal, got %q", cfg.Database.Host)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for zero config")
	}
	for _, want := range []string{"server.port", "database.host", "nats.url", "probe.timeout_seconds"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}
