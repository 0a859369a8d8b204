package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/home-lang/pantry-sub014/pkg/httputil"
	"github.com/home-lang/pantry-sub014/pkg/observability"
)

const tracerName = "github.com/home-lang/pantry-sub014/pkg/integrations"

// Options configures a Client. The zero value is usable.
type Options struct {
	// HTTPClient performs requests. Defaults to [NewHTTPClient].
	HTTPClient *http.Client
	// Headers are set on every request.
	Headers map[string]string
	// Authorize adds credentials to a request. It runs after Headers.
	Authorize func(*http.Request) error
	// MaxBodySize bounds JSON and text responses. Defaults to MaxMetadataSize.
	MaxBodySize int64
	// MaxTransferSize bounds downloads and uploads. Defaults to MaxTransferSize.
	MaxTransferSize int64
}

// Client provides shared HTTP functionality for all registry API clients:
// default headers, credentials, response size limits, status mapping,
// observability hooks and tracing spans. It never retries; transient failures
// come back as [*httputil.RetryableError] for the caller to act on.
type Client struct {
	http        *http.Client
	headers     map[string]string
	authorize   func(*http.Request) error
	maxBody     int64
	maxTransfer int64
	tracer      trace.Tracer
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		http:        opts.HTTPClient,
		headers:     opts.Headers,
		authorize:   opts.Authorize,
		maxBody:     opts.MaxBodySize,
		maxTransfer: opts.MaxTransferSize,
		tracer:      otel.Tracer(tracerName),
	}
	if c.http == nil {
		c.http = NewHTTPClient()
	}
	if c.maxBody <= 0 {
		c.maxBody = MaxMetadataSize
	}
	if c.maxTransfer <= 0 {
		c.maxTransfer = MaxTransferSize
	}
	return c
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	data, err := c.GetBytesWithHeaders(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// GetBytes performs an HTTP GET and returns the body, bounded by the metadata
// size limit.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	return c.GetBytesWithHeaders(ctx, url, nil)
}

// GetBytesWithHeaders is GetBytes with extra request headers.
func (c *Client) GetBytesWithHeaders(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return readLimited(resp.Body, c.maxBody)
}

// Download streams the body of a GET request into w and returns the number of
// bytes written. Bodies larger than the transfer limit fail with ErrTooLarge.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > c.maxTransfer {
		return 0, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	n, err := io.Copy(w, io.LimitReader(resp.Body, c.maxTransfer+1))
	if err != nil {
		return n, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	if n > c.maxTransfer {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxTransfer)
	}
	return n, nil
}

// Send performs a request with a body, such as a publish upload, and decodes a
// JSON response into v when v is non-nil. The body must fit the transfer
// limit.
func (c *Client) Send(ctx context.Context, method, url string, body []byte, headers map[string]string, v any) error {
	if int64(len(body)) > c.maxTransfer {
		return fmt.Errorf("%w: request body of %d bytes", ErrTooLarge, len(body))
	}
	resp, err := c.do(ctx, method, url, bytes.NewReader(body), headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, c.maxBody)
	if err != nil {
		return err
	}
	if v == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.authorize != nil {
		if err := c.authorize(req); err != nil {
			return nil, fmt.Errorf("authorize request: %w", err)
		}
	}

	host, path := req.URL.Host, req.URL.Path
	ctx, span := c.tracer.Start(ctx, method+" "+host,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("server.address", host),
			attribute.String("url.path", path),
		))
	defer span.End()
	req = req.WithContext(ctx)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return nil, httputil.Retryable(fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, redact(req.URL), err))
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if err := checkStatus(resp); err != nil {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// checkStatus maps a response status to an error. Rate limits and server
// errors are retryable; a Retry-After header in seconds is carried along.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err := &StatusError{StatusCode: code, Body: string(bytes.TrimSpace(snippet))}

	if code == http.StatusTooManyRequests || code >= 500 {
		re := &httputil.RetryableError{Err: err}
		if secs, perr := strconv.Atoi(resp.Header.Get("Retry-After")); perr == nil && secs > 0 {
			re.After = time.Duration(secs) * time.Second
		}
		return re
	}
	return err
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// redact drops credentials embedded in a URL before it reaches an error
// message.
func redact(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	c := *u
	c.User = nil
	return c.String()
}
