package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	ListenAddr string
	BaseURL    string

	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	// DisplayTimezone is the single zone all calendar times render in.
	DisplayTimezone string

	// RefreshSchedule is a cron spec for the background own-events
	// refresh; empty disables it.
	RefreshSchedule string

	PrometheusEnabled bool
	TrustedProxies    []string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("MEETGRID_LISTEN_ADDR", ":8080")
	cfg.BaseURL = getenvDefault("MEETGRID_BASE_URL", "http://localhost:8080")
	cfg.Backend.BaseURL = os.Getenv("MEETGRID_BACKEND_URL")
	cfg.DisplayTimezone = getenvDefault("MEETGRID_DISPLAY_TZ", "Asia/Tokyo")
	cfg.RefreshSchedule = getenvDefault("MEETGRID_REFRESH_SCHEDULE", "@every 5m")
	cfg.PrometheusEnabled = getenvBool("MEETGRID_PROMETHEUS_ENDPOINT_ENABLED", false)
	cfg.TrustedProxies = getenvList("MEETGRID_TRUSTED_PROXIES")

	timeout, err := getenvDuration("MEETGRID_BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Backend.Timeout = timeout

	if cfg.Backend.BaseURL == "" {
		return nil, errors.New("MEETGRID_BACKEND_URL is required")
	}
	if _, err := time.LoadLocation(cfg.DisplayTimezone); err != nil {
		return nil, fmt.Errorf("MEETGRID_DISPLAY_TZ: unknown timezone %q", cfg.DisplayTimezone)
	}

	if len(cfg.TrustedProxies) == 0 {
		fmt.Println("WARNING: No MEETGRID_TRUSTED_PROXIES configured. MeetGrid will trust all proxies - Not recommended for public environments.")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func getenvList(key string) []string {
	if v := os.Getenv(key); v != "" {
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return nil
}
