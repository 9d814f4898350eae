package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Known deployment targets. "default" talks to a backend on the local
// machine, "android-emulator" reaches the host through the AVD bridge
// address, "lan" targets a development box on the local network.
const (
	TargetDefault         = "default"
	TargetAndroidEmulator = "android-emulator"
	TargetLAN             = "lan"
)

// Auth transport modes
const (
	AuthModeBearer = "bearer"
	AuthModeCookie = "cookie"
)

var schemePattern = regexp.MustCompile(`^https?://`)

// Config holds all application configuration
type Config struct {
	API     APIConfig
	Session SessionConfig
	Catalog CatalogConfig
	Logging LoggingConfig
	AppEnv  string
}

type APIConfig struct {
	Target            string // named target, see Target* constants
	URLOverride       string // explicit base URL, highest priority
	LANHost           string // raw host or IP for the "lan" target
	Port              string
	AuthMode          string // bearer | cookie
	TimeoutSeconds    int
	RequestsPerSecond float64 // 0 disables client-side pacing
	CollegeID         string
}

type SessionConfig struct {
	Path string // identity store file
}

type CatalogConfig struct {
	DebounceMillis int // quiet period for free-text search refetch
}

type LoggingConfig struct {
	Level string
	Dir   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("API_TARGET", TargetDefault)
	v.SetDefault("API_PORT", "5000")
	v.SetDefault("AUTH_MODE", AuthModeBearer)
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 10)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("COLLEGE_ID", "c1")
	v.SetDefault("SEARCH_DEBOUNCE_MS", 300)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	sessionPath := v.GetString("SESSION_FILE")
	if sessionPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		sessionPath = filepath.Join(home, ".campus-client", "session.json")
	}

	cfg := &Config{
		AppEnv: v.GetString("APP_ENV"),
		API: APIConfig{
			Target:            v.GetString("API_TARGET"),
			URLOverride:       v.GetString("API_URL"),
			LANHost:           v.GetString("API_LAN_HOST"),
			Port:              v.GetString("API_PORT"),
			AuthMode:          v.GetString("AUTH_MODE"),
			TimeoutSeconds:    v.GetInt("HTTP_TIMEOUT_SECONDS"),
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			CollegeID:         v.GetString("COLLEGE_ID"),
		},
		Session: SessionConfig{
			Path: sessionPath,
		},
		Catalog: CatalogConfig{
			DebounceMillis: v.GetInt("SEARCH_DEBOUNCE_MS"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	switch c.API.Target {
	case TargetDefault, TargetAndroidEmulator, TargetLAN:
	default:
		return fmt.Errorf("API_TARGET must be one of %s, %s, %s", TargetDefault, TargetAndroidEmulator, TargetLAN)
	}

	if c.API.Target == TargetLAN && c.API.LANHost == "" && c.API.URLOverride == "" {
		return fmt.Errorf("API_LAN_HOST is required for the %s target", TargetLAN)
	}

	if c.API.AuthMode != AuthModeBearer && c.API.AuthMode != AuthModeCookie {
		return fmt.Errorf("AUTH_MODE must be %q or %q", AuthModeBearer, AuthModeCookie)
	}

	if c.API.Port == "" {
		return fmt.Errorf("API_PORT is required")
	}

	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}

	if c.Catalog.DebounceMillis < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE_MS must not be negative")
	}

	if c.Session.Path == "" {
		return fmt.Errorf("SESSION_FILE is required")
	}

	return nil
}

// BaseURL resolves the active backend address. Priority: explicit URL
// override, then the named target. The result is normalized but not
// guaranteed reachable; callers decide how to handle a suspicious one.
func (c *Config) BaseURL() string {
	if c.API.URLOverride != "" {
		return NormalizeBaseURL(c.API.URLOverride, c.API.Port)
	}

	switch c.API.Target {
	case TargetAndroidEmulator:
		return NormalizeBaseURL("10.0.2.2", c.API.Port)
	case TargetLAN:
		return NormalizeBaseURL(c.API.LANHost, c.API.Port)
	default:
		return NormalizeBaseURL("127.0.0.1", c.API.Port)
	}
}

// NormalizeBaseURL turns a raw host string into a usable base URL.
// Tolerates values with or without a scheme, an accidental trailing
// slash, or an embedded port; a bare host gets the default port.
func NormalizeBaseURL(raw, defaultPort string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if schemePattern.MatchString(s) {
		return strings.TrimRight(s, "/")
	}

	s = strings.TrimRight(s, "/")
	if strings.Contains(s, ":") {
		return "http://" + s
	}
	return "http://" + s + ":" + defaultPort
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
