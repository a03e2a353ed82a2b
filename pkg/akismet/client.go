package akismet

import (
	"context"
	"net/http"
	"time"
)

// Client submits comments to the Akismet service.
//
// Implementations hold no state between calls and are safe for concurrent use.
type Client interface {
	// CheckComment asks the service whether the comment is spam.
	CheckComment(ctx context.Context, comment *Comment) (CheckResult, error)
	// SubmitHam reports a comment that was wrongly marked as spam.
	SubmitHam(ctx context.Context, comment *Comment) error
	// SubmitSpam reports a comment that should have been marked as spam.
	SubmitSpam(ctx context.Context, comment *Comment) error
	// VerifyKey reports whether the configured API key is valid.
	VerifyKey(ctx context.Context) (bool, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an akismet.Client.
//
// # Defaults
//
// akismetclient.New fills in Endpoint with https://rest.akismet.com and
// UserAgent with "Go/<version> | Akismet/<version>" when they are empty.
// APIKey and Blog are required; New fails with an error wrapping
// ErrInvalidConfig before any request is sent when they are missing.
//
// # Timeouts
//
// Every call takes a context; deadlines and cancellation should be
// expressed there. HTTPTimeout is an optional upper bound applied to the
// underlying http.Client.
type Config struct {
	// Required fields
	// APIKey: the Akismet API key. It is sent as a subdomain of the end point
	// for comment-check, submit-ham and submit-spam.
	APIKey string
	// Blog: the front page or home URL of the site making requests.
	Blog *Blog

	// Optional configurations
	// Endpoint: base URL of the service. A missing scheme defaults to https.
	Endpoint string
	// IsTest: when true, requests carry is_test=1 and do not train the service.
	IsTest bool
	// UserAgent: overrides the User-Agent header. It should have the form
	// "Application Name/Version | Plugin Name/Version".
	UserAgent string
	// HTTPTimeout: optional timeout of the underlying HTTP client.
	HTTPTimeout time.Duration
	// HTTPClient: optional HTTP client used to reach the service.
	HTTPClient *http.Client
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// Interceptors: optional hooks run around every request.
	Interceptors *InterceptorChain
}
