// Package httpclient provides the single configured request pipeline
// shared by all domain stores: bearer-token attachment on the way out,
// unauthorized handling with clock-skew tolerance on the way back.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AQUACY/AGHIMS/internal/token"
	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/monitoring"
	"github.com/AQUACY/AGHIMS/pkg/storage"
	"github.com/AQUACY/AGHIMS/pkg/types"
)

const (
	// issuedGraceWindow suppresses eviction for tokens issued within
	// the last few seconds: a 401 that soon after login is presumed to
	// be clock skew between workstation and server, not a revocation.
	issuedGraceWindow = 5 * time.Second

	// evictionDelay lets in-flight operations settle before the forced
	// navigation to the login view.
	evictionDelay = 100 * time.Millisecond

	loginPath = "/login"
)

// Options configures the client pipeline
type Options struct {
	BaseURL string
	Store   storage.Store
	Logger  *logger.Logger

	// Metrics and Tracing are optional
	Metrics *monitoring.Metrics
	Tracing *monitoring.TracingManager

	Timeout time.Duration

	// CurrentPath reports the currently displayed route; used to avoid
	// redirect loops when a 401 arrives on the login view. Nil means
	// "not on the login view".
	CurrentPath func() string

	// RedirectToLogin forces navigation to the login view after an
	// eviction. Nil disables the forced navigation.
	RedirectToLogin func()

	// Now is a clock hook for tests; defaults to time.Now
	Now func() time.Time
}

// Client is the shared API request pipeline
type Client struct {
	base    string
	http    *http.Client
	store   storage.Store
	logger  *logger.Logger
	metrics *monitoring.Metrics

	currentPath     func() string
	redirectToLogin func()
	now             func() time.Time
}

// New creates the configured request pipeline. The base endpoint is
// resolved once by the caller (config override or host derivation) and
// never changes afterwards.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		base: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:    http.DefaultTransport,
				store:   opts.Store,
				logger:  opts.Logger,
				metrics: opts.Metrics,
				tracing: opts.Tracing,
			},
		},
		store:           opts.Store,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		currentPath:     opts.CurrentPath,
		redirectToLogin: opts.RedirectToLogin,
		now:             now,
	}
}

// Get issues a GET request and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, payload, "application/json", out)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	payload, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, payload, "application/json", out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// PostForm issues a form-encoded POST; the login endpoint consumes
// credentials this way.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, body, "application/x-www-form-urlencoded", out)
}

// do runs one request through the pipeline and applies the response
// interceptor policy.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return &types.APIError{Method: method, Path: path, Detail: "invalid request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport error: no response, nothing to intercept. The
		// caller surfaces it locally; the session is never evicted for
		// connectivity failures.
		return &types.APIError{Method: method, Path: path, Detail: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &types.APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Detail:     decodeDetail(resp.Body),
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &types.APIError{Method: method, Path: path, Detail: "invalid response body", Cause: err}
	}
	return nil
}

// handleUnauthorized decides whether a 401 evicts the session.
//
// A 401 on the login view passes through untouched to avoid redirect
// loops. Otherwise, a persisted token issued within the grace window is
// treated as a suspected clock-skew false positive and the session is
// kept; an older or undecodable token evicts the session and forces
// navigation to the login view after a short delay.
func (c *Client) handleUnauthorized() {
	if c.currentPath != nil && c.currentPath() == loginPath {
		return
	}

	tok, ok := c.store.Get(storage.KeyAuthToken)
	if !ok || tok == "" {
		return
	}

	claims := token.DecodeClaims(tok)
	if claims.IssuedWithin(issuedGraceWindow, c.now()) {
		c.logger.WithComponent("httpclient").
			Warn("401 with freshly issued token, suspected clock skew, keeping session")
		return
	}

	c.evictSession()
}

// evictSession clears the persisted credentials and schedules the
// redirect to the login view.
func (c *Client) evictSession() {
	if err := c.store.Remove(storage.KeyAuthToken); err != nil {
		c.logger.WithComponent("httpclient").WithError(err).Warn("Failed to clear token")
	}
	if err := c.store.Remove(storage.KeyUser); err != nil {
		c.logger.WithComponent("httpclient").WithError(err).Warn("Failed to clear cached user")
	}

	if c.metrics != nil {
		c.metrics.RecordEviction()
	}
	c.logger.SessionEvent("evicted", "", map[string]interface{}{"reason": "unauthorized"})

	if c.redirectToLogin != nil {
		time.AfterFunc(evictionDelay, c.redirectToLogin)
	}
}

// encodeJSON marshals a request body, tolerating a nil body
func encodeJSON(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return buf, nil
}

// decodeDetail extracts the server-supplied detail message from an
// error response body, best effort.
func decodeDetail(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
