package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CCB     CCBConfig  `yaml:"ccb"`
	Log     LogConfig  `yaml:"log"`
	SFTP    SFTPConfig `yaml:"sftp"`
	Workers int        `yaml:"workers"`
}

type CCBConfig struct {
	// BaseURL is the full api.php endpoint, e.g. https://church.ccbchurch.com/api.php
	BaseURL            string        `yaml:"baseURL"`
	User               string        `yaml:"user"`
	Pass               string        `yaml:"pass"`
	DefaultCampusID    string        `yaml:"defaultCampusID"`
	Timeout            time.Duration `yaml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify"`

	// RateLimitRPS <= 0 disables client-side throttling.
	RateLimitRPS   float64 `yaml:"rateLimitRPS"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`
}

type LogConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

type SFTPConfig struct {
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	User                  string `yaml:"user"`
	Pass                  string `yaml:"pass"`
	RemoteDir             string `yaml:"remoteDir"`
	KnownHostsFile        string `yaml:"knownHostsFile"`
	InsecureIgnoreHostKey bool   `yaml:"insecureIgnoreHostKey"`
}

func Defaults() Config {
	return Config{
		CCB: CCBConfig{
			DefaultCampusID: "1",
			Timeout:         2 * time.Minute,
			RateLimitBurst:  1,
		},
		Log: LogConfig{
			Level: "info",
		},
		SFTP: SFTPConfig{
			Port:      22,
			RemoteDir: "/inbound",
		},
		Workers: 4,
	}
}

// Load reads configuration from the environment only.
func Load() Config {
	cfg := Defaults()
	applyEnv(&cfg)
	return cfg
}

// LoadFile reads the YAML file at path (if non-empty) over the defaults and
// then applies environment overrides, so env always wins.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	// CCB
	cfg.CCB.BaseURL = getenv("CCB_BASE_URL", cfg.CCB.BaseURL)
	cfg.CCB.User = getenv("CCB_API_USER", cfg.CCB.User)
	cfg.CCB.Pass = getenv("CCB_API_PASS", cfg.CCB.Pass)
	cfg.CCB.DefaultCampusID = getenv("CCB_DEFAULT_CAMPUS_ID", cfg.CCB.DefaultCampusID)
	cfg.CCB.Timeout = getenvDuration("CCB_HTTP_TIMEOUT", cfg.CCB.Timeout)
	cfg.CCB.InsecureSkipVerify = getenvBool("CCB_INSECURE_SKIP_VERIFY", cfg.CCB.InsecureSkipVerify)
	cfg.CCB.RateLimitRPS = getenvFloat("CCB_RATE_LIMIT_RPS", cfg.CCB.RateLimitRPS)
	cfg.CCB.RateLimitBurst = getenvInt("CCB_RATE_LIMIT_BURST", cfg.CCB.RateLimitBurst)

	// Logging
	cfg.Log.Dir = getenv("LOG_DIR", cfg.Log.Dir)
	cfg.Log.Level = getenv("LOG_LEVEL", cfg.Log.Level)

	// SFTP
	cfg.SFTP.Host = getenv("SFTP_HOST", cfg.SFTP.Host)
	cfg.SFTP.Port = getenvInt("SFTP_PORT", cfg.SFTP.Port)
	cfg.SFTP.User = getenv("SFTP_USER", cfg.SFTP.User)
	cfg.SFTP.Pass = getenv("SFTP_PASS", cfg.SFTP.Pass)
	cfg.SFTP.RemoteDir = getenv("SFTP_DIR", cfg.SFTP.RemoteDir)
	cfg.SFTP.KnownHostsFile = getenv("SFTP_KNOWN_HOSTS", cfg.SFTP.KnownHostsFile)
	cfg.SFTP.InsecureIgnoreHostKey = getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", cfg.SFTP.InsecureIgnoreHostKey)

	cfg.Workers = getenvInt("WORKERS", cfg.Workers)
}

// Validate reports the settings a live CCB run cannot do without.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.CCB.BaseURL) == "" {
		missing = append(missing, "CCB_BASE_URL")
	}
	if c.CCB.User == "" {
		missing = append(missing, "CCB_API_USER")
	}
	if c.CCB.Pass == "" {
		missing = append(missing, "CCB_API_PASS")
	}
	if len(missing) > 0 {
		return errors.New("config: missing env " + strings.Join(missing, " / "))
	}
	return nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvFloat(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
