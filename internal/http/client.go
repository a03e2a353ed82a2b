package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client posts form requests to the service. It sends exactly one request
// per call and never retries.
type Client struct {
	httpClient   *retryablehttp.Client
	userAgent    string
	logger       Logger
	debug        bool
	interceptors *akismet.InterceptorChain
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client is copied,
// so later options do not modify the caller's value.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient == nil {
			return
		}

		clone := *httpClient
		c.httpClient.HTTPClient = &clone
	}
}

// WithTimeout bounds every request made by the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithInterceptors runs the chain around every request.
func WithInterceptors(chain *akismet.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new HTTP client.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.CheckRetry = noRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		httpClient: retryClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.debug && client.logger != nil {
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	return client
}

// noRetryPolicy never retries; it only surfaces context errors.
func noRetryPolicy(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, nil
}

// PostForm sends the form to the end point and returns the response,
// whatever its status. An error means no response was received.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	req := &akismet.Request{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: make(http.Header),
		Form:    form,
	}

	req.Headers.Set("Content-Type", constants.FormContentType)

	if c.userAgent != "" {
		req.Headers.Set("User-Agent", c.userAgent)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, req, &akismet.Response{Error: err})

		return nil, err
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, req, &akismet.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	})
	if err != nil {
		return resp, err
	}

	return resp, nil
}

func (c *Client) send(ctx context.Context, req *akismet.Request) (*Response, error) {
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, strings.NewReader(req.Form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = req.Headers.Clone()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// The pass-through error handler hands back the response along with
		// a context error.
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// The end point host carries the API key, so only the path is logged.
func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, attempt int) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  req.Method,
		"path":    req.URL.Path,
		"attempt": attempt + 1,
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	fields := map[string]interface{}{
		"status_code": resp.StatusCode,
	}

	if resp.Request != nil {
		fields["operation"] = path.Base(resp.Request.URL.Path)
	}

	if help := resp.Header.Get(constants.HeaderDebugHelp); help != "" {
		fields["debug_help"] = help
	}

	c.logger.Debug("HTTP Response", fields)
}
