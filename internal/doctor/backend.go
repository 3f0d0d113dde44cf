package doctor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// BackendReachableCheck probes the backend health path with HEAD, the same
// way the connectivity indicator does.
type BackendReachableCheck struct {
	Caller     remote.Caller
	URL        string
	HealthPath string
}

func (c *BackendReachableCheck) Name() string     { return "backend_reachable" }
func (c *BackendReachableCheck) Category() string { return CategoryBackend }

func (c *BackendReachableCheck) Run(ctx context.Context) CheckResult {
	res := c.Caller.Call(ctx, c.HealthPath, remote.Options{Method: http.MethodHead})
	if res.OK {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Backend reachable at %s", c.URL),
		}
	}

	if res.Err != nil && res.Err.Kind == remote.HTTPError {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Backend at %s answered HEAD %s with HTTP %d", c.URL, c.HealthPath, res.Status),
			Suggestion: "Check backend.health_path points at an endpoint that accepts HEAD",
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    fmt.Sprintf("Backend unreachable at %s", c.URL),
		Suggestion: "Start the backend, or point sdnctl at it with --backend or SDNCTL_BACKEND_URL",
	}
}

func (c *BackendReachableCheck) Fix() error { return nil }

// EndpointCheck verifies a panel endpoint answers GET with JSON.
type EndpointCheck struct {
	Caller   remote.Caller
	Panel    string
	Endpoint string
}

func (c *EndpointCheck) Name() string     { return "endpoint_" + c.Panel }
func (c *EndpointCheck) Category() string { return CategoryBackend }

func (c *EndpointCheck) Run(ctx context.Context) CheckResult {
	res := c.Caller.Call(ctx, c.Endpoint, remote.Options{})
	if res.OK {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s (%s)", c.Endpoint, c.Panel),
		}
	}

	result := CheckResult{Name: c.Name(), Status: StatusFail}
	kind := remote.NetworkError
	if res.Err != nil {
		kind = res.Err.Kind
	}
	switch kind {
	case remote.HTTPError:
		result.Message = fmt.Sprintf("%s returned HTTP %d", c.Endpoint, res.Status)
		result.Suggestion = fmt.Sprintf("The %s panel will show an error until the backend serves this endpoint", c.Panel)
	case remote.DecodeError:
		result.Message = fmt.Sprintf("%s did not return valid JSON", c.Endpoint)
		result.Suggestion = "Check the backend version matches this console"
	default:
		result.Message = fmt.Sprintf("%s: backend unreachable", c.Endpoint)
	}
	return result
}

func (c *EndpointCheck) Fix() error { return nil }

// PanelEndpoint names a dashboard panel and the endpoint that feeds it.
type PanelEndpoint struct {
	Panel    string
	Endpoint string
}

// NewBackendChecks returns the reachability check followed by one check per
// panel endpoint.
func NewBackendChecks(caller remote.Caller, url, healthPath string, endpoints []PanelEndpoint) []Check {
	checks := []Check{&BackendReachableCheck{Caller: caller, URL: url, HealthPath: healthPath}}
	for _, ep := range endpoints {
		checks = append(checks, &EndpointCheck{Caller: caller, Panel: ep.Panel, Endpoint: ep.Endpoint})
	}
	return checks
}
