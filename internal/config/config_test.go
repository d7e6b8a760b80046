package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MEETGRID_BACKEND_URL", "http://scheduler.internal:9000")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.DisplayTimezone != "Asia/Tokyo" {
		t.Errorf("DisplayTimezone = %q", cfg.DisplayTimezone)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Backend.Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.RefreshSchedule != "@every 5m" {
		t.Errorf("RefreshSchedule = %q", cfg.RefreshSchedule)
	}
}

func TestLoadRequiresBackendURL(t *testing.T) {
	t.Setenv("MEETGRID_BACKEND_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load should fail without MEETGRID_BACKEND_URL")
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("MEETGRID_DISPLAY_TZ", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("Load should reject an unknown timezone")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MEETGRID_LISTEN_ADDR", ":9999")
	t.Setenv("MEETGRID_BACKEND_TIMEOUT", "3s")
	t.Setenv("MEETGRID_PROMETHEUS_ENDPOINT_ENABLED", "true")
	t.Setenv("MEETGRID_TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Backend.Timeout != 3*time.Second {
		t.Errorf("Backend.Timeout = %v", cfg.Backend.Timeout)
	}
	if !cfg.PrometheusEnabled {
		t.Error("PrometheusEnabled should be true")
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "10.0.0.2" {
		t.Errorf("TrustedProxies = %v", cfg.TrustedProxies)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("MEETGRID_BACKEND_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("Load should reject an unparseable timeout")
	}
}
