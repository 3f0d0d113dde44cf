package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves environment variables and a leading ~ in path settings
// such as state_file and log.file, e.g. "$XDG_STATE_HOME/sdnctl/state.json"
// or "~/.config/sdnctl/state.json". ~user is left alone.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
