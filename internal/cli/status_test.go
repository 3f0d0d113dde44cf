package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sdnctl/internal/errors"
)

func TestStatusCommand_Text(t *testing.T) {
	srv := newBackend(t, backendRoutes())
	var buf bytes.Buffer

	err := statusCommand(context.Background(), &buf, testConfig(t, srv.URL), false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, srv.URL)
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "2 (1 available)")
	assert.Contains(t, out, "of:0000000000000001")
	assert.Contains(t, out, "40000")
	assert.Contains(t, out, "2 KB")
	assert.Contains(t, out, "final_162")
	assert.Contains(t, out, "campus network")
	assert.Contains(t, out, "student_mail")
	assert.Contains(t, out, "flow_rule_final")
}

func TestStatusCommand_JSON(t *testing.T) {
	srv := newBackend(t, backendRoutes())
	var buf bytes.Buffer

	err := statusCommand(context.Background(), &buf, testConfig(t, srv.URL), true)
	require.NoError(t, err)

	var env struct {
		Success bool         `json:"success"`
		Data    StatusOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.True(t, env.Data.Status.NetworkRunning)
	assert.Len(t, env.Data.Devices, 2)
	assert.Len(t, env.Data.Flows, 1)
	assert.Equal(t, "cam6", env.Data.Selection.Topology)
	assert.Empty(t, env.Data.Errors)
}

func TestStatusCommand_PanelFailureIsInline(t *testing.T) {
	routes := backendRoutes()
	delete(routes, "/api/flows")
	srv := newBackend(t, routes)

	var buf bytes.Buffer
	err := statusCommand(context.Background(), &buf, testConfig(t, srv.URL), false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "flows: boom")
	assert.Contains(t, out, "of:0000000000000001", "other panels still render")
}

func TestStatusCommand_PanelFailureInJSON(t *testing.T) {
	routes := backendRoutes()
	delete(routes, "/api/qos")
	srv := newBackend(t, routes)

	var buf bytes.Buffer
	require.NoError(t, statusCommand(context.Background(), &buf, testConfig(t, srv.URL), true))

	var env struct {
		Data StatusOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	require.Contains(t, env.Data.Errors, "qos")
	assert.Equal(t, ErrCodeBackendError, env.Data.Errors["qos"].Code)
	assert.Equal(t, "boom", env.Data.Errors["qos"].Message)
}

func TestStatusCommand_BackendDown(t *testing.T) {
	var buf bytes.Buffer
	err := statusCommand(context.Background(), &buf, testConfig(t, deadURL(t)), false)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNetwork))
	assert.Contains(t, err.Error(), "Couldn't reach the backend")
}

func TestStatusCommand_BackendDownJSON(t *testing.T) {
	var buf bytes.Buffer
	err := statusCommand(context.Background(), &buf, testConfig(t, deadURL(t)), true)
	require.Error(t, err)

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeBackendUnreachable, env.Error.Code)
}

func TestStatusCommand_EveryPanelErrors(t *testing.T) {
	srv := newBackend(t, map[string]string{})
	var buf bytes.Buffer

	err := statusCommand(context.Background(), &buf, testConfig(t, srv.URL), false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrHTTP))
}
