package cli

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/sdnctl/internal/config"
)

// backendRoutes answers every endpoint the console uses.
func backendRoutes() map[string]string {
	return map[string]string{
		"/api/status":       `{"status":"success","network_running":true,"device_count":2}`,
		"/api/devices":      `{"status":"success","devices":[{"id":"of:0000000000000001","type":"SWITCH","available":true},{"id":"of:0000000000000002","type":"SWITCH","available":false}]}`,
		"/api/topologies":   `{"status":"success","topologies":["cam6",{"name":"final_162","description":"campus network"}]}`,
		"/api/flows":        `{"status":"success","flows":[{"id":"42","deviceId":"of:0000000000000001","priority":40000,"state":"ADDED","bytes":2048}]}`,
		"/api/selection":    `{"status":"success","selection":{"topology":"cam6","flow_set":"flow_rule_final"}}`,
		"/api/qos":          `{"status":"success","qos":{"bandwidth_limits":{"student_mail":"5 Mbps"}}}`,
		"/api/inject_flows": `{"status":"success","message":"Flow rules injected"}`,
		"/api/stop":         `{"status":"error","message":"Network is not running"}`,
		"/api/pingall":      `{"status":"success","message":"Ping complete","output":"h1 -> h2 h3\nh2 -> h1 h3"}`,
	}
}

// newBackend serves routes; anything else is a 500 with a JSON error.
func newBackend(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":"error","message":"boom"}`))
			return
		}
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testConfig points at url and keeps state inside the test's temp dir.
func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Backend.URL = url
	cfg.StateFile = filepath.Join(t.TempDir(), "state.json")
	cfg.Log.File = filepath.Join(t.TempDir(), "sdnctl.log")
	return cfg
}

// deadURL returns the address of a server that is no longer listening.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
