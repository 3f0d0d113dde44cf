package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rileyhilliard/sdnctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/devices", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"status":"success","devices":[{"id":"of:1"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res := c.Call(context.Background(), "/api/devices", Options{})

	require.True(t, res.OK)
	assert.Nil(t, res.Err)
	assert.NoError(t, res.Error())
	assert.Equal(t, http.StatusOK, res.Status)

	var body struct {
		Devices []struct {
			ID string `json:"id"`
		} `json:"devices"`
	}
	require.NoError(t, res.Decode(&body))
	require.Len(t, body.Devices, 1)
	assert.Equal(t, "of:1", body.Devices[0].ID)
}

func TestCall_PostBodyAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"set":2}`, string(data))
		_, _ = w.Write([]byte(`{"status":"success","message":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	res := c.Call(context.Background(), "api/inject_flows", Options{
		Method:  http.MethodPost,
		Body:    map[string]int{"set": 2},
		Headers: map[string]string{"X-Test": "yes"},
	})

	require.True(t, res.OK)
	assert.JSONEq(t, `{"status":"success","message":"ok"}`, string(res.Payload))
}

func TestCall_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","message":"bad rule"}`))
	}))
	defer srv.Close()

	log := logger.NewBufferLogger()
	c := New(srv.URL, WithLogger(log))
	res := c.Call(context.Background(), "/api/inject_flows", Options{Method: http.MethodPost})

	assert.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, HTTPError, res.Err.Kind)
	assert.Equal(t, http.StatusInternalServerError, res.Err.Status)
	assert.Contains(t, res.Err.Error(), "HTTP 500")
	assert.JSONEq(t, `{"status":"error","message":"bad rule"}`, string(res.Payload))
	assert.True(t, log.HasLevel("warn"), "failures are logged for diagnostics")
}

func TestCall_HTTPErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	res := New(srv.URL).Call(context.Background(), "/missing", Options{})

	require.NotNil(t, res.Err)
	assert.Equal(t, HTTPError, res.Err.Kind)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Empty(t, res.Payload)
}

func TestCall_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	res := New(srv.URL).Call(context.Background(), "/api/flows", Options{})

	assert.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, DecodeError, res.Err.Kind)
}

func TestCall_EncodeFailureIsDecodeError(t *testing.T) {
	res := New("http://127.0.0.1:1").Call(context.Background(), "/x", Options{
		Method: http.MethodPost,
		Body:   map[string]any{"bad": make(chan int)},
	})

	require.NotNil(t, res.Err)
	assert.Equal(t, DecodeError, res.Err.Kind)
}

func TestCall_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := New(url).Call(context.Background(), "/api/status", Options{Method: http.MethodHead})

	assert.False(t, res.OK)
	require.NotNil(t, res.Err)
	assert.Equal(t, NetworkError, res.Err.Kind)
	assert.Error(t, res.Error())
}

func TestCall_HeadHasNoPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := New(srv.URL).Call(context.Background(), "/api/status", Options{Method: http.MethodHead})

	assert.True(t, res.OK)
	assert.Empty(t, res.Payload)
}

func TestCall_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	res := New(srv.URL).Call(context.Background(), "/api/stop", Options{Method: http.MethodPost})
	assert.True(t, res.OK)
}

func TestCall_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	start := time.Now()
	res := c.Call(context.Background(), "/api/status", Options{})

	assert.Less(t, time.Since(start), 2*time.Second)
	require.NotNil(t, res.Err)
	assert.Equal(t, NetworkError, res.Err.Kind)
}

func TestCall_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(srv.URL).Call(ctx, "/api/status", Options{})
	require.NotNil(t, res.Err)
	assert.Equal(t, NetworkError, res.Err.Kind)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestCall_AbsoluteEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res := New("http://unused.invalid").Call(context.Background(), srv.URL+"/api/topologies", Options{})
	assert.True(t, res.OK)
}

func TestResult_DecodeEmpty(t *testing.T) {
	var v map[string]any
	err := Result{OK: true}.Decode(&v)
	require.Error(t, err)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, DecodeError, ce.Kind)
}

func TestResult_DecodeMismatch(t *testing.T) {
	var v []int
	err := Result{OK: true, Payload: json.RawMessage(`{"a":1}`)}.Decode(&v)
	require.Error(t, err)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "network error", NetworkError.String())
	assert.Equal(t, "http error", HTTPError.String())
	assert.Equal(t, "decode error", DecodeError.String())
	assert.Equal(t, "unknown error", ErrorKind(0).String())
}

func TestClient_ImplementsCaller(t *testing.T) {
	var _ Caller = New("http://localhost")
}
