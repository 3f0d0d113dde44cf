package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".sdnctl.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/sdnctl"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides: SDNCTL_BACKEND_URL, ...
	EnvPrefix = "SDNCTL"
)

// Load reads config from the specified path. Environment variables override
// values from the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'sdnctl init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sdnctl.yaml in current directory
// 3. .sdnctl.yaml in parent directories (stops at git root or home)
// 4. ~/.config/sdnctl/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		if isGitRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults (with
// environment overrides applied) if no file exists.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return parseConfig(newViper(), "")
	}

	return Load(path)
}

// newViper returns a viper instance with defaults and env overrides wired.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so env overrides apply even when the key
// is absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentConfigVersion)
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.health_path", DefaultHealthPath)
	v.SetDefault("backend.request_timeout", DefaultRequestTimeout)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("probe_interval", DefaultProbeInterval)
	v.SetDefault("notifications.duration", DefaultNotifyDuration)
	v.SetDefault("notifications.history", DefaultNotifyHistory)
	v.SetDefault("state_file", DefaultStateFile)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	cfg.Path = path
	cfg.Backend.URL = strings.TrimRight(cfg.Backend.URL, "/")
	cfg.StateFile = ExpandPath(cfg.StateFile)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	return cfg, nil
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	gitPath := filepath.Join(dir, ".git")
	_, err := os.Stat(gitPath)
	return err == nil
}
