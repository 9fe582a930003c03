// Package config centralises configuration for the activities frontend.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting. Values come from, in increasing priority:
// built-in defaults, an optional YAML file, a .env file and the process environment.
type Config struct {
	Env                string        `yaml:"env"`
	ListenAddr         string        `yaml:"listen_addr"`
	ApplicationURL     string        `yaml:"application_url"`
	WebsocketURL       string        `yaml:"websocket_url"`
	ActivityServiceURL string        `yaml:"activity_service_url"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	MessageTimeout     time.Duration `yaml:"message_timeout"`
	PageIdleTimeout    time.Duration `yaml:"page_idle_timeout"`
	SessionSecret      string        `yaml:"session_secret"`
	SecureCookies      bool          `yaml:"secure_cookies"`
	LogDir             string        `yaml:"log_dir"`
	TemplatesDir       string        `yaml:"templates_dir"`
	StaticDir          string        `yaml:"static_dir"`
	Metrics            MetricsConfig `yaml:"metrics"`
	Tracing            TracingConfig `yaml:"tracing"`
}

// MetricsConfig controls the optional CloudWatch push. Prometheus is always exposed.
type MetricsConfig struct {
	Namespace         string `yaml:"namespace"`
	CloudWatchEnabled bool   `yaml:"cloudwatch_enabled"`
}

// TracingConfig controls AWS X-Ray tracing.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DaemonAddr  string `yaml:"daemon_addr"`
	ServiceName string `yaml:"service_name"`
}

// Default returns the settings used for local development.
func Default() Config {
	return Config{
		Env:                "development",
		ListenAddr:         ":8080",
		ApplicationURL:     "http://localhost:8080",
		WebsocketURL:       "ws://localhost:8080/page-updates",
		ActivityServiceURL: "http://localhost:8000",
		RequestTimeout:     10 * time.Second,
		MessageTimeout:     5 * time.Second,
		PageIdleTimeout:    30 * time.Minute,
		SessionSecret:      "dev-secret-change-me",
		LogDir:             "./logs",
		TemplatesDir:       "templates",
		StaticDir:          "static",
		Metrics: MetricsConfig{
			Namespace: "MergingtonActivities",
		},
		Tracing: TracingConfig{
			DaemonAddr:  "127.0.0.1:2000",
			ServiceName: "mergington-activities",
		},
	}
}

// Load builds the configuration. yamlPath may be empty; envFile is loaded only
// when it exists so a missing .env is not an error.
func Load(yamlPath, envFile string) (Config, error) {
	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", yamlPath, err)
		}
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.ListenAddr, "LISTEN_ADDR")
	setString(&c.ApplicationURL, "APPLICATION_URL")
	setString(&c.WebsocketURL, "WEBSOCKET_URL")
	setString(&c.ActivityServiceURL, "ACTIVITY_SERVICE_URL")
	setString(&c.SessionSecret, "SESSION_SECRET")
	setString(&c.LogDir, "LOG_DIR")
	setString(&c.TemplatesDir, "TEMPLATES_DIR")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.Metrics.Namespace, "METRICS_NAMESPACE")
	setString(&c.Tracing.DaemonAddr, "XRAY_DAEMON_ADDR")
	setString(&c.Tracing.ServiceName, "XRAY_SERVICE_NAME")

	for key, dst := range map[string]*time.Duration{
		"REQUEST_TIMEOUT":   &c.RequestTimeout,
		"MESSAGE_TIMEOUT":   &c.MessageTimeout,
		"PAGE_IDLE_TIMEOUT": &c.PageIdleTimeout,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"SECURE_COOKIES":     &c.SecureCookies,
		"CLOUDWATCH_ENABLED": &c.Metrics.CloudWatchEnabled,
		"XRAY_ENABLED":       &c.Tracing.Enabled,
	} {
		if err := setBool(dst, key); err != nil {
			return err
		}
	}
	return nil
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.ActivityServiceURL == "" {
		return errors.New("activity service URL is required")
	}
	u, err := url.Parse(c.ActivityServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("activity service URL %q must be absolute", c.ActivityServiceURL)
	}
	if c.MessageTimeout <= 0 {
		return errors.New("message timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.PageIdleTimeout <= 0 {
		return errors.New("page idle timeout must be positive")
	}
	if c.SessionSecret == "" {
		return errors.New("session secret is required")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = b
	return nil
}
