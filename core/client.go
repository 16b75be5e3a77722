package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Lumen platform API base URL.
const DefaultBaseURL = "https://api.lumenlabs.ai"

// Client performs authenticated requests against the Lumen platform API.
// Client is immutable after construction and safe for concurrent use.
type Client struct {
	apiKey     Secret
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	retry      RetryPolicy
	telemetry  TelemetryHook
}

// Option configures a Client.
type Option func(*Client)

// New creates a Client with the given API key and options.
// The key is required; everything else has defaults.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		apiKey:     NewSecret(apiKey),
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		retry:      DefaultRetryPolicy(),
		telemetry:  NoopTelemetryHook{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(r RetryPolicy) Option {
	return func(c *Client) {
		if r != nil {
			c.retry = r
		}
	}
}

// WithMaxRetries sets the maximum retry count, keeping default backoff.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.retry = NewRetryPolicy(RetryConfig{MaxRetries: n})
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h TelemetryHook) Option {
	return func(c *Client) {
		if h != nil {
			c.telemetry = h
		}
	}
}

// WithDebug enables request logging to w.
func WithDebug(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.telemetry = NewLogTelemetryHook(w)
		}
	}
}

// WithHeader adds an extra header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(http.Header)
		}
		c.headers.Set(key, value)
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON sends body as a JSON POST to path and decodes the response into
// out. Failed attempts are retried per the retry policy; the final failure is
// returned as an *APIError.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return c.decodeError(err)
	}
	return c.do(ctx, path, "application/json", payload, out)
}

// PostMultipart sends form as a multipart/form-data POST to path and decodes
// the response into out. The form is encoded once; retries resend the same
// bytes.
func (c *Client) PostMultipart(ctx context.Context, path string, form *Form, out any) error {
	contentType, payload, err := form.Encode()
	if err != nil {
		return c.decodeError(err)
	}
	return c.do(ctx, path, contentType, payload, out)
}

// PostStream sends body as a JSON POST to path and returns the raw response
// body as a TextStream instead of a parsed value. Setup failures are retried
// per the retry policy; once the stream is established it is single-pass and
// not restarted.
func (c *Client) PostStream(ctx context.Context, path string, body any) (*TextStream, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, c.decodeError(err)
	}

	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Endpoint: path, Start: start})

	var resp *http.Response
	attempts := 0
attemptLoop:
	for attempt := 0; ; attempt++ {
		attempts = attempt + 1
		resp, err = c.attempt(ctx, path, "application/json", payload)
		if err == nil {
			break
		}
		delay, retryAgain := c.retry.NextDelay(attempt, err)
		if !retryAgain {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break attemptLoop
		case <-time.After(delay):
		}
	}

	if err != nil {
		err = withAttempts(err, attempts)
		c.telemetry.OnRequestEnd(RequestEndEvent{
			Endpoint: path, Start: start, End: time.Now(),
			Attempts: attempts, Err: err,
		})
		return nil, err
	}

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Endpoint: path, Start: start, End: time.Now(),
		Status: resp.StatusCode, Attempts: attempts,
	})
	return newTextStream(ctx, resp.Body), nil
}

// do runs the retry loop for a buffered request and decodes the response.
func (c *Client) do(ctx context.Context, path, contentType string, payload []byte, out any) error {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Endpoint: path, Start: start})

	var status int
	var err error
	attempts := 0
attemptLoop:
	for attempt := 0; ; attempt++ {
		attempts = attempt + 1
		status, err = c.exchange(ctx, path, contentType, payload, out)
		if err == nil {
			break
		}
		delay, retryAgain := c.retry.NextDelay(attempt, err)
		if !retryAgain {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break attemptLoop
		case <-time.After(delay):
		}
	}

	if err != nil {
		err = withAttempts(err, attempts)
	}
	c.telemetry.OnRequestEnd(RequestEndEvent{
		Endpoint: path, Start: start, End: time.Now(),
		Status: status, Attempts: attempts, Err: err,
	})
	return err
}

// exchange performs one HTTP attempt and decodes a successful response.
func (c *Client) exchange(ctx context.Context, path, contentType string, payload []byte, out any) (int, error) {
	resp, err := c.attempt(ctx, path, contentType, payload)
	if err != nil {
		return statusOf(err), err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, c.networkError(err)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, c.decodeError(err)
		}
		if env, ok := out.(envelope); ok {
			env.setCode(resp.StatusCode)
		}
	}
	return resp.StatusCode, nil
}

// attempt issues a single HTTP request. An error response body is consumed
// and normalized; a success response body is returned open for the caller.
func (c *Client) attempt(ctx context.Context, path, contentType string, payload []byte) (*http.Response, error) {
	diag := newDiagnostics()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &APIError{Message: err.Error(), Meta: diag, Err: ErrNetwork}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey.Expose())
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerLanguage, diag.Language)
	req.Header.Set(headerVersion, diag.Version)
	req.Header.Set(headerOS, diag.OS)
	req.Header.Set(headerArch, diag.Arch)
	req.Header.Set(headerRequestID, diag.RequestID)
	req.Header.Set(headerTimestamp, diag.Timestamp)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Message:   err.Error(),
			RequestID: diag.RequestID,
			Meta:      diag,
			Err:       ErrNetwork,
		}
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalizeHTTPError(resp.StatusCode, respBody, diag)
	}
	return resp, nil
}

// normalizeHTTPError converts an HTTP error response into an *APIError.
func normalizeHTTPError(status int, body []byte, diag Diagnostics) error {
	var envBody platformErrorBody
	_ = json.Unmarshal(body, &envBody)

	message := envBody.Error.Message
	if message == "" {
		message = envBody.Message
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return &APIError{
		Status:    status,
		Code:      envBody.Error.Code,
		Message:   message,
		RequestID: diag.RequestID,
		Meta:      diag,
		Err:       sentinelForStatus(status),
	}
}

func (c *Client) networkError(err error) error {
	return &APIError{Message: err.Error(), Meta: newDiagnostics(), Err: ErrNetwork}
}

func (c *Client) decodeError(err error) error {
	return &APIError{Message: err.Error(), Err: ErrDecode}
}

// withAttempts records the attempt count on a normalized error.
func withAttempts(err error, attempts int) error {
	var ae *APIError
	if errors.As(err, &ae) {
		ae.Attempts = attempts
	}
	return err
}

func statusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// envelope is implemented by Response so success payloads carry the HTTP
// status as their code field.
type envelope interface {
	setCode(int)
}

// Response is the common success envelope embedded by all capability
// response types: the remote JSON body merged with {code: <status>}.
type Response struct {
	Code int `json:"code"`
}

func (r *Response) setCode(code int) {
	if r.Code == 0 {
		r.Code = code
	}
}
