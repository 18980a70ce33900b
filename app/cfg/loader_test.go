package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func defaultRawCfg() rawCfg {
	return rawCfg{
		AgeLimit:       "8760h",
		SubPostLimit:   50,
		PageLimit:      10,
		CachingEnabled: "true",
	}
}

func TestBuildCfgCachingEnabledByDefault(t *testing.T) {
	cfg, err := buildCfg(defaultRawCfg())
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.CachingEnabled {
		t.Error("Expected caching enabled by default")
	}

	raw := defaultRawCfg()
	raw.CachingEnabled = "false"
	cfg, err = buildCfg(raw)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CachingEnabled {
		t.Error("Expected caching disabled for 'false'")
	}

	raw.CachingEnabled = "bogus"
	if _, err := buildCfg(raw); err == nil {
		t.Error("Expected error for an unparseable caching-enabled value")
	}
}

func TestBuildCfgValidation(t *testing.T) {
	raw := defaultRawCfg()
	raw.AgeLimit = "not-a-duration"
	if _, err := buildCfg(raw); err == nil {
		t.Error("Expected error for an invalid age limit")
	}

	raw = defaultRawCfg()
	raw.SubPostLimit = 0
	if _, err := buildCfg(raw); err == nil {
		t.Error("Expected error for a non-positive sub post limit")
	}

	raw = defaultRawCfg()
	raw.PageLimit = -1
	if _, err := buildCfg(raw); err == nil {
		t.Error("Expected error for a non-positive page limit")
	}

	raw = defaultRawCfg()
	raw.AgeLimit = "48h"
	cfg, err := buildCfg(raw)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AgeLimit != 48*time.Hour {
		t.Errorf("Expected age limit 48h, got %v", cfg.AgeLimit)
	}
}

func TestConfigFields(t *testing.T) {
	// Create a config instance to test field access
	cfg := &Cfg{
		DBHost:          "localhost",
		DBPort:          "5432",
		DBUser:          "test_user",
		DBPassword:      "test_password",
		DBName:          "test_db",
		RedisAddr:       "localhost:6379",
		CachingEnabled:  true,
		AgeLimit:        8760 * time.Hour,
		SubPostLimit:    50,
		PageLimit:       10,
		RefreshInterval: 30 * time.Second,
		WorkerCount:     5,
		Port:            "8080",
		UserAgent:       "Test Agent",
		Debug:           true,
		Version:         "test-version",
	}

	// Test direct field access
	if cfg.DBHost != "localhost" {
		t.Errorf("Expected DB host 'localhost', got '%s'", cfg.DBHost)
	}
	if cfg.DBPort != "5432" {
		t.Errorf("Expected DB port '5432', got '%s'", cfg.DBPort)
	}
	if cfg.DBUser != "test_user" {
		t.Errorf("Expected DB user 'test_user', got '%s'", cfg.DBUser)
	}
	if cfg.DBPassword != "test_password" {
		t.Errorf("Expected DB password 'test_password', got '%s'", cfg.DBPassword)
	}
	if cfg.DBName != "test_db" {
		t.Errorf("Expected DB name 'test_db', got '%s'", cfg.DBName)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis address 'localhost:6379', got '%s'", cfg.RedisAddr)
	}
	if !cfg.CachingEnabled {
		t.Error("Expected caching to be enabled")
	}
	if cfg.AgeLimit != 8760*time.Hour {
		t.Errorf("Expected age limit 8760h, got %v", cfg.AgeLimit)
	}
	if cfg.SubPostLimit != 50 {
		t.Errorf("Expected sub post limit 50, got %d", cfg.SubPostLimit)
	}
	if cfg.PageLimit != 10 {
		t.Errorf("Expected page limit 10, got %d", cfg.PageLimit)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Errorf("Expected refresh interval 30s, got %v", cfg.RefreshInterval)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
