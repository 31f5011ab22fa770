package cyrest

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

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/jorgebotas/gocyto/pkg/buildinfo"
	"github.com/jorgebotas/gocyto/pkg/cache"
	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/httputil"
	"github.com/jorgebotas/gocyto/pkg/observability"
)

const (
	// DefaultBaseURL is the CyREST endpoint of a local Cytoscape desktop.
	DefaultBaseURL = "http://127.0.0.1:1234/v1"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Client talks to one CyREST instance. It is safe for sequential use; the
// rate limiter and HTTP client are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
	limiter *rate.Limiter
	retries int
	backoff time.Duration
	cache   cache.Cache
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps requests per second. Zero or less means unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithRetries repeats failed requests n more times on transport failures
// and 5xx responses.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// WithCache caches lookups that do not change for a running instance.
func WithCache(cc cache.Cache) Option {
	return func(c *Client) {
		if cc != nil {
			c.cache = cc
		}
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// New creates a client for the CyREST API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": buildinfo.UserAgent(),
		},
		backoff: time.Second,
		cache:   cache.NewNullCache(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the CyREST base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// endpoint joins path segments, escaping each one.
func endpoint(segments ...string) string {
	esc := make([]string, len(segments))
	for i, s := range segments {
		esc[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(esc, "/")
}

// request describes one CyREST call.
type request struct {
	method string
	path   string // escaped, see endpoint
	query  url.Values
	body   any
	accept string // overrides the default Accept header
}

// do sends req and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	raw, err := c.doRaw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
	}
	return nil
}

// doRaw sends req and returns the response body.
func (c *Client) doRaw(ctx context.Context, req request) ([]byte, error) {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", req.method, req.path, err)
		}
	}

	var data []byte
	err := httputil.Retry(ctx, c.retries+1, c.backoff, func() error {
		var err error
		data, err = c.send(ctx, req, payload)
		return err
	})
	return data, err
}

func (c *Client) send(ctx context.Context, req request, payload []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		hreq.Header.Set(k, v)
	}
	if req.accept != "" {
		hreq.Header.Set("Accept", req.accept)
	}
	if payload != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	host, path := hreq.URL.Host, hreq.URL.EscapedPath()
	hooks.OnRequest(ctx, req.method, host, path)
	c.logger.Debug("cyrest request", "method", req.method, "path", req.path)

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		hooks.OnError(ctx, req.method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%s %s: %w: %v", req.method, req.path, ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.method, host, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%s %s: %w: read body: %v", req.method, req.path, ErrNetwork, err))
	}
	if err := checkStatus(req, resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func checkStatus(req request, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	apiErr := &APIError{Method: req.method, Path: req.path, Status: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Messages = eb.messages()
	}
	if len(apiErr.Messages) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "<") {
			apiErr.Messages = []string{text}
		}
	}
	if status >= 500 {
		return httputil.Retryable(apiErr)
	}
	return apiErr
}
