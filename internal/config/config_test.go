package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	for _, k := range []string{"BARTNOW_PORT", "BARTNOW_STATIONS_PATH", "BARTNOW_SESSION_TTL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.StationsPath != "" {
		t.Errorf("StationsPath = %q, want bundled asset", cfg.StationsPath)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BARTNOW_PORT", "9090")
	t.Setenv("BARTNOW_STATIONS_PATH", "/srv/stations.json")
	t.Setenv("BARTNOW_ALERTS_INTERVAL", "30s")
	t.Setenv("BARTNOW_SESSION_CAPACITY", "not-a-number")

	cfg := Load()
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.StationsPath != "/srv/stations.json" {
		t.Errorf("StationsPath = %q", cfg.StationsPath)
	}
	if cfg.AlertsInterval != 30*time.Second {
		t.Errorf("AlertsInterval = %v, want 30s", cfg.AlertsInterval)
	}
	if cfg.SessionCapacity != 1000 {
		t.Errorf("SessionCapacity = %d, want fallback 1000 for a bad value", cfg.SessionCapacity)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BARTNOW_PORT", "") // restores the original value on cleanup
	os.Unsetenv("BARTNOW_PORT")
	t.Setenv("BARTNOW_DB_PATH", "/from/env.db")

	env := "BARTNOW_PORT=7070\nBARTNOW_DB_PATH=/from/dotenv.db\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want 7070 from .env", cfg.Port)
	}
	// Real environment wins over .env.
	if cfg.DBPath != "/from/env.db" {
		t.Errorf("DBPath = %q, want the environment value", cfg.DBPath)
	}
}

func TestLoad_SessionCapacity(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 1000},
		{"50", 50},
		{"0", 1000},
		{"-5", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("BARTNOW_SESSION_CAPACITY", tt.value)
			if got := Load().SessionCapacity; got != tt.want {
				t.Errorf("SessionCapacity for %q = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"5m", 5 * time.Minute},
		{"-5m", time.Minute},
		{"soon", time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BARTNOW_TEST_DURATION", tt.value)
			if got := envDuration("BARTNOW_TEST_DURATION", time.Minute); got != tt.want {
				t.Errorf("envDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
