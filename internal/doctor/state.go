package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/store"
)

// StateFileCheck verifies the state file decodes and its directory exists.
type StateFileCheck struct {
	Path string
}

func (c *StateFileCheck) Name() string     { return "state_file" }
func (c *StateFileCheck) Category() string { return CategoryState }

func (c *StateFileCheck) Run(context.Context) CheckResult {
	dir := filepath.Dir(c.Path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("State directory does not exist: %s", dir),
			Suggestion: "It is created on first save",
			Fixable:    true,
		}
	}

	if err := store.New(c.Path, nil).Verify(); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    errors.Summary(err),
			Suggestion: "Delete the file; selection and notification history start fresh",
			Fixable:    true,
		}
	}

	if _, err := os.Stat(c.Path); os.IsNotExist(err) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("No state saved yet (%s)", c.Path),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("State file: %s", c.Path),
	}
}

// Fix creates the state directory, or removes a corrupt state file.
func (c *StateFileCheck) Fix() error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return err
	}
	if store.New(c.Path, nil).Verify() != nil {
		return os.Remove(c.Path)
	}
	return nil
}
