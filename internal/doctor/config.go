package doctor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/errors"
)

// ConfigFileCheck reports which config file is in use.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    errors.Summary(err),
			Suggestion: "Check the --config path or run 'sdnctl init'",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'sdnctl init' to create a .sdnctl.yaml config file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", filepath.Base(path)),
	}
}

func (c *ConfigFileCheck) Fix() error { return nil }

// ConfigValidCheck loads the config (or defaults) and validates it.
type ConfigValidCheck struct {
	ConfigPath string
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return CategoryConfig }

func (c *ConfigValidCheck) Run(context.Context) CheckResult {
	cfg, err := config.LoadOrDefault(c.ConfigPath)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    errors.Summary(err),
			Suggestion: errors.SuggestionOf(err),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config is valid (backend %s)", cfg.Backend.URL),
	}
}

func (c *ConfigValidCheck) Fix() error { return nil }

// NewConfigChecks returns the config checks for an explicit path (or "" to
// search).
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigValidCheck{ConfigPath: configPath},
	}
}
