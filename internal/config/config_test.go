package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"CCB_BASE_URL", "CCB_API_USER", "CCB_API_PASS", "CCB_DEFAULT_CAMPUS_ID",
	"CCB_HTTP_TIMEOUT", "CCB_INSECURE_SKIP_VERIFY", "CCB_RATE_LIMIT_RPS",
	"CCB_RATE_LIMIT_BURST", "LOG_DIR", "LOG_LEVEL", "SFTP_HOST", "SFTP_PORT",
	"SFTP_USER", "SFTP_PASS", "SFTP_DIR", "SFTP_KNOWN_HOSTS",
	"SFTP_INSECURE_IGNORE_HOSTKEY", "WORKERS",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envVars {
		t.Setenv(env, "")
	}
}

func TestGetenv(t *testing.T) {
	// Test with empty environment variable
	os.Unsetenv("TEST_GETENV")
	result := getenv("TEST_GETENV", "default")
	if result != "default" {
		t.Errorf("Expected default value 'default', got '%s'", result)
	}

	// Test with set environment variable
	os.Setenv("TEST_GETENV", "test-value")
	result = getenv("TEST_GETENV", "default")
	if result != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", result)
	}

	// Clean up
	os.Unsetenv("TEST_GETENV")
}

func TestGetenvInt(t *testing.T) {
	testCases := []struct {
		value    string
		expected int
	}{
		{"", 42},
		{"100", 100},
		{" 7 ", 7},
		{"not-an-int", 42},
	}

	for _, tc := range testCases {
		t.Setenv("TEST_GETENV_INT", tc.value)
		if result := getenvInt("TEST_GETENV_INT", 42); result != tc.expected {
			t.Errorf("getenvInt(%q) = %d; expected %d", tc.value, result, tc.expected)
		}
	}
}

func TestGetenvBool(t *testing.T) {
	testCases := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"", true, true},
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"not-a-bool", true, true},
	}

	for _, tc := range testCases {
		t.Setenv("TEST_GETENV_BOOL", tc.value)
		if result := getenvBool("TEST_GETENV_BOOL", tc.def); result != tc.expected {
			t.Errorf("getenvBool(%q, %v) = %v; expected %v", tc.value, tc.def, result, tc.expected)
		}
	}
}

func TestGetenvFloatAndDuration(t *testing.T) {
	t.Setenv("TEST_GETENV_FLOAT", "2.5")
	if got := getenvFloat("TEST_GETENV_FLOAT", 0); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
	t.Setenv("TEST_GETENV_FLOAT", "fast")
	if got := getenvFloat("TEST_GETENV_FLOAT", 1); got != 1 {
		t.Errorf("Expected default 1, got %v", got)
	}

	t.Setenv("TEST_GETENV_DURATION", "45s")
	if got := getenvDuration("TEST_GETENV_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("Expected 45s, got %v", got)
	}
	t.Setenv("TEST_GETENV_DURATION", "soon")
	if got := getenvDuration("TEST_GETENV_DURATION", time.Minute); got != time.Minute {
		t.Errorf("Expected default 1m, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.CCB.DefaultCampusID != "1" {
		t.Errorf("Expected default campus '1', got %q", cfg.CCB.DefaultCampusID)
	}
	if cfg.CCB.Timeout != 2*time.Minute {
		t.Errorf("Expected default timeout 2m, got %v", cfg.CCB.Timeout)
	}
	if cfg.CCB.RateLimitRPS != 0 {
		t.Errorf("Expected throttling off by default, got %v", cfg.CCB.RateLimitRPS)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.SFTP.Port != 22 {
		t.Errorf("Expected default SFTP port 22, got %d", cfg.SFTP.Port)
	}
	if cfg.SFTP.RemoteDir != "/inbound" {
		t.Errorf("Expected default SFTP dir '/inbound', got %q", cfg.SFTP.RemoteDir)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected default workers 4, got %d", cfg.Workers)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CCB_BASE_URL", "https://church.ccbchurch.com/api.php")
	t.Setenv("CCB_API_USER", "api")
	t.Setenv("CCB_API_PASS", "secret")
	t.Setenv("CCB_DEFAULT_CAMPUS_ID", "3")
	t.Setenv("CCB_HTTP_TIMEOUT", "30s")
	t.Setenv("CCB_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("CCB_RATE_LIMIT_RPS", "5")
	t.Setenv("CCB_RATE_LIMIT_BURST", "2")
	t.Setenv("SFTP_PORT", "2222")
	t.Setenv("WORKERS", "8")

	cfg := Load()
	if cfg.CCB.BaseURL != "https://church.ccbchurch.com/api.php" {
		t.Errorf("Unexpected BaseURL %q", cfg.CCB.BaseURL)
	}
	if cfg.CCB.DefaultCampusID != "3" {
		t.Errorf("Expected campus '3', got %q", cfg.CCB.DefaultCampusID)
	}
	if cfg.CCB.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.CCB.Timeout)
	}
	if !cfg.CCB.InsecureSkipVerify {
		t.Error("Expected InsecureSkipVerify to be true")
	}
	if cfg.CCB.RateLimitRPS != 5 || cfg.CCB.RateLimitBurst != 2 {
		t.Errorf("Unexpected rate limit %v/%d", cfg.CCB.RateLimitRPS, cfg.CCB.RateLimitBurst)
	}
	if cfg.SFTP.Port != 2222 {
		t.Errorf("Expected SFTP port 2222, got %d", cfg.SFTP.Port)
	}
	if cfg.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestLoadFileEnvWins(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ccb:
  baseURL: https://file.ccbchurch.com/api.php
  user: file-user
  pass: file-pass
  defaultCampusID: "7"
  timeout: 15s
log:
  dir: /var/log/ccb
  level: notice
workers: 2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CCB_API_USER", "env-user")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.CCB.BaseURL != "https://file.ccbchurch.com/api.php" {
		t.Errorf("Expected BaseURL from file, got %q", cfg.CCB.BaseURL)
	}
	if cfg.CCB.User != "env-user" {
		t.Errorf("Expected env to override user, got %q", cfg.CCB.User)
	}
	if cfg.CCB.DefaultCampusID != "7" {
		t.Errorf("Expected campus '7', got %q", cfg.CCB.DefaultCampusID)
	}
	if cfg.CCB.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", cfg.CCB.Timeout)
	}
	if cfg.Log.Dir != "/var/log/ccb" || cfg.Log.Level != "notice" {
		t.Errorf("Unexpected log config %+v", cfg.Log)
	}
	if cfg.SFTP.Port != 22 {
		t.Errorf("Expected default SFTP port to survive, got %d", cfg.SFTP.Port)
	}
	if cfg.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.Workers)
	}
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("ccb: [unterminated"), 0o600)
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error for empty credentials")
	}
	expected := "config: missing env CCB_BASE_URL / CCB_API_USER / CCB_API_PASS"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	cfg.CCB.BaseURL = "https://x/api.php"
	cfg.CCB.User = "u"
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CCB_API_PASS") {
		t.Errorf("Expected only CCB_API_PASS missing, got %v", err)
	}
}
