package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for plansync
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	UI        UIConfig        `yaml:"ui"`
	DevServer DevServerConfig `yaml:"devserver"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig holds the study-plan server connection
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Zero means requests never time out
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects the client-side settings backend
type StorageConfig struct {
	Backend       string `yaml:"backend"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddress  string `yaml:"redis_address"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	PostgresDSN   string `yaml:"postgres_dsn"`
}

// RefreshConfig holds the background refresh schedule
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Rollover is the local HH:MM at which the current day is reloaded
	Rollover string `yaml:"rollover"`
}

// UIConfig holds client timing knobs
type UIConfig struct {
	CalendarRetry  time.Duration `yaml:"calendar_retry"`
	NoteSavedFlash time.Duration `yaml:"note_saved_flash"`
}

// DevServerConfig holds the local in-memory API server configuration
type DevServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Fixtures string `yaml:"fixtures"`
}

// LogConfig holds structured logging options
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
		},
		Storage: StorageConfig{
			Backend:      "sqlite",
			RedisAddress: "localhost:6379",
		},
		Refresh: RefreshConfig{
			Interval: time.Minute,
			Rollover: "00:00",
		},
		UI: UIConfig{
			CalendarRetry:  100 * time.Millisecond,
			NoteSavedFlash: 1500 * time.Millisecond,
		},
		DevServer: DevServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// PLANSYNC_CONFIG, then environment variables. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()

	if path := getEnv("PLANSYNC_CONFIG", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = getEnv("PLANSYNC_API_URL", c.API.BaseURL)
	c.API.APIKey = getEnv("PLANSYNC_API_KEY", c.API.APIKey)
	c.API.Timeout = getEnvAsDuration("PLANSYNC_API_TIMEOUT", c.API.Timeout)

	c.Storage.Backend = getEnv("PLANSYNC_STORAGE", c.Storage.Backend)
	c.Storage.SQLitePath = getEnv("PLANSYNC_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.RedisAddress = getEnv("PLANSYNC_REDIS_ADDRESS", c.Storage.RedisAddress)
	c.Storage.RedisPassword = getEnv("PLANSYNC_REDIS_PASSWORD", c.Storage.RedisPassword)
	c.Storage.RedisDB = getEnvAsInt("PLANSYNC_REDIS_DB", c.Storage.RedisDB)
	c.Storage.PostgresDSN = getEnv("PLANSYNC_POSTGRES_DSN", c.Storage.PostgresDSN)

	c.Refresh.Interval = getEnvAsDuration("PLANSYNC_REFRESH_INTERVAL", c.Refresh.Interval)
	c.Refresh.Rollover = getEnv("PLANSYNC_ROLLOVER", c.Refresh.Rollover)

	c.UI.CalendarRetry = getEnvAsDuration("PLANSYNC_CALENDAR_RETRY", c.UI.CalendarRetry)
	c.UI.NoteSavedFlash = getEnvAsDuration("PLANSYNC_NOTE_FLASH", c.UI.NoteSavedFlash)

	c.DevServer.Host = getEnv("PLANSYNC_DEVSERVER_HOST", c.DevServer.Host)
	c.DevServer.Port = getEnvAsInt("PLANSYNC_DEVSERVER_PORT", c.DevServer.Port)
	c.DevServer.Fixtures = getEnv("PLANSYNC_FIXTURES", c.DevServer.Fixtures)

	c.Log.Level = getEnv("PLANSYNC_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("PLANSYNC_LOG_FORMAT", c.Log.Format)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base URL is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout: %s", c.API.Timeout)
	}

	switch c.Storage.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddress == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("invalid refresh interval: %s", c.Refresh.Interval)
	}
	if _, _, err := ParseClock(c.Refresh.Rollover); err != nil {
		return err
	}

	if c.UI.CalendarRetry <= 0 {
		return fmt.Errorf("invalid calendar retry: %s", c.UI.CalendarRetry)
	}
	if c.UI.NoteSavedFlash <= 0 {
		return fmt.Errorf("invalid note flash duration: %s", c.UI.NoteSavedFlash)
	}

	if c.DevServer.Port < 1 || c.DevServer.Port > 65535 {
		return fmt.Errorf("invalid devserver port: %d", c.DevServer.Port)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	return nil
}

// ParseClock parses an HH:MM time of day
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
