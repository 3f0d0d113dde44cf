package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rs/zerolog"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sdnctl only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sdnctl or lower the config version.")
	}

	if err := ValidateBackendURL(cfg.Backend.URL); err != nil {
		return err
	}

	if !strings.HasPrefix(cfg.Backend.HealthPath, "/") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("backend.health_path '%s' must start with /", cfg.Backend.HealthPath),
			"Use a backend path such as /api/status.")
	}

	durations := []struct {
		key string
		val time.Duration
	}{
		{"backend.request_timeout", cfg.Backend.RequestTimeout},
		{"poll_interval", cfg.PollInterval},
		{"probe_interval", cfg.ProbeInterval},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be positive, got %s", d.key, d.val),
				"Try something like 10s or 1m.")
		}
	}

	if cfg.Notifications.Duration < 0 {
		return errors.New(errors.ErrConfig,
			"notifications.duration can't be negative",
			"Use 0 to keep notifications until they are replaced.")
	}
	if cfg.Notifications.History < 0 {
		return errors.New(errors.ErrConfig,
			"notifications.history can't be negative",
			"Use 0 to disable notification history.")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil || cfg.Log.Level == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", cfg.Log.Level),
			"Use one of: debug, info, warn, error.")
	}

	return nil
}

// ValidateBackendURL checks that raw is an absolute http(s) URL.
func ValidateBackendURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New(errors.ErrConfig,
			"backend.url is empty",
			"Set it in .sdnctl.yaml, with --backend, or via SDNCTL_BACKEND_URL.")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("backend.url '%s' isn't a valid URL", raw),
			"Use something like http://localhost:5000.")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("backend.url '%s' must use http or https", raw),
			"Use something like http://localhost:5000.")
	}
	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("backend.url '%s' has no host", raw),
			"Use something like http://localhost:5000.")
	}
	return nil
}
