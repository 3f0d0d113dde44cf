// Package remote wraps HTTP calls to the SDN backend and normalizes every
// outcome into a Result value. Call never returns an error or panics past its
// own boundary: transport failures, non-2xx statuses, and malformed bodies all
// come back as a Result with OK false and a categorized CallError.
//
// Remote only logs failures. Deciding whether a failure deserves a
// user-visible notification is left to the caller.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/sdnctl/internal/logger"
)

// DefaultTimeout bounds every request made by a Client unless overridden.
const DefaultTimeout = 10 * time.Second

// ErrorKind categorizes why a call failed.
type ErrorKind int

const (
	// NetworkError is a transport-level failure: offline, DNS, refused, timeout.
	NetworkError ErrorKind = iota + 1
	// HTTPError is a response with a non-2xx status.
	HTTPError
	// DecodeError is a body that could not be serialized or parsed as JSON.
	DecodeError
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network error"
	case HTTPError:
		return "http error"
	case DecodeError:
		return "decode error"
	default:
		return "unknown error"
	}
}

// CallError describes a failed call.
type CallError struct {
	Kind     ErrorKind
	Method   string
	Endpoint string
	Status   int // set for HTTPError
	Cause    error
}

func (e *CallError) Error() string {
	switch e.Kind {
	case HTTPError:
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Endpoint, e.Status, http.StatusText(e.Status))
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Endpoint, e.Kind, e.Cause)
		}
		return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Kind)
	}
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// Options configures a single call.
type Options struct {
	// Method defaults to GET.
	Method string
	// Body is JSON-encoded when non-nil. A json.RawMessage or []byte is sent as is.
	Body any
	// Headers are merged over the default JSON content-type header.
	Headers map[string]string
}

// Result is the outcome of a call.
type Result struct {
	OK     bool
	Status int
	// Payload is the decoded JSON body. It is absent for HEAD requests and
	// empty responses. For HTTPError results it holds the error body when the
	// backend sent valid JSON, so callers can surface the backend's message.
	Payload json.RawMessage
	Err     *CallError
}

// Error returns the call error as an error interface, or nil on success.
func (r Result) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// Decode unmarshals the result payload into dest.
func (r Result) Decode(dest any) error {
	if len(r.Payload) == 0 {
		return &CallError{Kind: DecodeError, Cause: fmt.Errorf("empty payload")}
	}
	if err := json.Unmarshal(r.Payload, dest); err != nil {
		return &CallError{Kind: DecodeError, Cause: err}
	}
	return nil
}

// Caller is the interface consumed by pollers, probes, and actions.
type Caller interface {
	Call(ctx context.Context, endpoint string, opts Options) Result
}

// Client is the HTTP implementation of Caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client rooted at baseURL. Endpoints passed to Call are
// resolved against it unless they are absolute URLs.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call performs the request and returns its normalized Result. It blocks
// until the exchange completes, fails, or ctx is done.
func (c *Client) Call(ctx context.Context, endpoint string, opts Options) (res Result) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: &CallError{Kind: NetworkError, Method: method, Endpoint: endpoint, Cause: fmt.Errorf("panic: %v", r)}}
		}
		if res.Err != nil {
			c.log.Warn("API call to %s failed: %v", endpoint, res.Err)
		}
	}()

	fail := func(kind ErrorKind, status int, cause error) Result {
		return Result{
			Status: status,
			Err:    &CallError{Kind: kind, Method: method, Endpoint: endpoint, Status: status, Cause: cause},
		}
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return fail(DecodeError, 0, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return fail(NetworkError, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	c.log.Debug("%s %s", method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(NetworkError, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(NetworkError, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res := fail(HTTPError, resp.StatusCode, nil)
		if json.Valid(data) {
			res.Payload = json.RawMessage(data)
		}
		return res
	}

	if method == http.MethodHead || resp.StatusCode == http.StatusNoContent {
		return Result{OK: true, Status: resp.StatusCode}
	}

	if !json.Valid(data) {
		return fail(DecodeError, resp.StatusCode, fmt.Errorf("response is not valid JSON (%d bytes)", len(data)))
	}

	return Result{OK: true, Status: resp.StatusCode, Payload: json.RawMessage(data)}
}

func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + endpoint
}

func encodeBody(v any) (io.Reader, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}
