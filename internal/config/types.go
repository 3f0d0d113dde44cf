package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .sdnctl.yaml configuration file.
type Config struct {
	Version       int                `yaml:"version" mapstructure:"version"`
	Backend       BackendConfig      `yaml:"backend" mapstructure:"backend"`
	PollInterval  time.Duration      `yaml:"poll_interval" mapstructure:"poll_interval"`
	ProbeInterval time.Duration      `yaml:"probe_interval" mapstructure:"probe_interval"`
	Notifications NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
	StateFile     string             `yaml:"state_file" mapstructure:"state_file"`
	Log           LogConfig          `yaml:"log" mapstructure:"log"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-" mapstructure:"-"`
}

// BackendConfig describes how to reach the SDN backend.
type BackendConfig struct {
	// URL is the backend base URL, e.g. http://localhost:5000.
	URL string `yaml:"url" mapstructure:"url"`

	// HealthPath is probed with HEAD to decide reachability.
	HealthPath string `yaml:"health_path" mapstructure:"health_path"`

	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// NotificationConfig controls the notification slot.
type NotificationConfig struct {
	// Duration is how long a notification stays visible. Zero keeps it
	// until the next one replaces it.
	Duration time.Duration `yaml:"duration" mapstructure:"duration"`

	// History is how many past notifications are kept.
	History int `yaml:"history" mapstructure:"history"`
}

// LogConfig controls diagnostics logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`

	// File receives logs. Empty means stderr for one-shot commands and
	// nowhere while the dashboard owns the terminal.
	File string `yaml:"file" mapstructure:"file"`
}

// Defaults.
const (
	DefaultBackendURL     = "http://localhost:5000"
	DefaultHealthPath     = "/api/status"
	DefaultRequestTimeout = 10 * time.Second
	DefaultPollInterval   = 30 * time.Second
	DefaultProbeInterval  = 30 * time.Second
	DefaultNotifyDuration = 5 * time.Second
	DefaultNotifyHistory  = 50
	DefaultStateFile      = "~/.config/sdnctl/state.json"
	DefaultLogLevel       = "info"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Backend: BackendConfig{
			URL:            DefaultBackendURL,
			HealthPath:     DefaultHealthPath,
			RequestTimeout: DefaultRequestTimeout,
		},
		PollInterval:  DefaultPollInterval,
		ProbeInterval: DefaultProbeInterval,
		Notifications: NotificationConfig{
			Duration: DefaultNotifyDuration,
			History:  DefaultNotifyHistory,
		},
		StateFile: DefaultStateFile,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}
