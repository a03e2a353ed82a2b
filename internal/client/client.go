package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"runtime"
	"strings"

	"github.com/fivetwenty-io/akismet/internal/constants"
	internalhttp "github.com/fivetwenty-io/akismet/internal/http"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

var runtimeVersion = regexp.MustCompile(`^go(\d+(\.\d+){1,2}).*$`)

// Client implements the akismet.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	endpoints  *Endpoints
	apiKey     string
	blog       *akismet.Blog
	isTest     bool
	userAgent  string
	logger     akismet.Logger
}

// New validates the configuration and creates a new Akismet client. It
// never performs a network call.
func New(config *akismet.Config) (*Client, error) {
	if config == nil {
		return nil, akismet.ErrConfigRequired
	}

	if strings.TrimSpace(config.APIKey) == "" {
		return nil, akismet.ErrAPIKeyRequired
	}

	if config.Blog == nil {
		return nil, akismet.ErrBlogRequired
	}

	err := config.Blog.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", akismet.ErrInvalidBlog, err)
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultEndpoint
	}

	endpoints, err := NewEndpoints(endpoint, config.APIKey)
	if err != nil {
		return nil, err
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	httpClient := internalhttp.NewClient(createHTTPClientOptions(config, userAgent)...)

	return &Client{
		httpClient: httpClient,
		endpoints:  endpoints,
		apiKey:     config.APIKey,
		blog:       config.Blog,
		isTest:     config.IsTest,
		userAgent:  userAgent,
		logger:     config.Logger,
	}, nil
}

// DefaultUserAgent identifies the Go runtime and this library.
func DefaultUserAgent() string {
	goVersion := runtimeVersion.ReplaceAllString(runtime.Version(), "$1")

	return fmt.Sprintf("Go/%s | Akismet/%s", goVersion, constants.Version)
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *akismet.Config, userAgent string) []internalhttp.Option {
	httpOpts := []internalhttp.Option{internalhttp.WithUserAgent(userAgent)}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, internalhttp.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, internalhttp.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// APIKey returns the configured API key.
func (c *Client) APIKey() string {
	return c.apiKey
}

// Blog returns the configured blog.
func (c *Client) Blog() *akismet.Blog {
	return c.blog
}

// IsTest reports whether requests are sent in test mode.
func (c *Client) IsTest() bool {
	return c.isTest
}

// UserAgent returns the User-Agent header sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Endpoints returns the end points derived from the configuration.
func (c *Client) Endpoints() *Endpoints {
	return c.endpoints
}

// reply is a response that passed every error check.
type reply struct {
	body    string
	headers http.Header
}

// fetch posts the blog fields merged with the given fields to the end
// point and classifies the response.
func (c *Client) fetch(ctx context.Context, endpoint string, fields url.Values) (*reply, error) {
	form, err := c.blog.Values()
	if err != nil {
		return nil, fmt.Errorf("encoding blog: %w", err)
	}

	for key, values := range fields {
		form[key] = values
	}

	if c.isTest {
		form.Set("is_test", constants.TestModeValue)
	}

	resp, err := c.httpClient.PostForm(ctx, endpoint, form)
	if errors.Is(err, akismet.ErrInterceptor) {
		return nil, err
	}

	if err != nil {
		return nil, &akismet.ClientError{Kind: akismet.ErrTransport, URL: endpoint, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &akismet.ClientError{Kind: akismet.ErrHTTPStatus, URL: endpoint, StatusCode: resp.StatusCode}
	}

	if values, ok := resp.Headers[http.CanonicalHeaderKey(constants.HeaderDebugHelp)]; ok {
		return nil, &akismet.ClientError{Kind: akismet.ErrDebugHelp, URL: endpoint, Message: strings.Join(values, ", ")}
	}

	return &reply{
		body:    strings.TrimSpace(string(resp.Body)),
		headers: resp.Headers,
	}, nil
}

// loggerAdapter adapts akismet.Logger to http.Logger.
type loggerAdapter struct {
	logger akismet.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
