// Package akismetclient provides the main entry point for creating Akismet clients
package akismetclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/akismet/internal/client"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

// New creates a new Akismet client. The configuration is validated and
// completed with defaults; no request is sent.
func New(config *akismet.Config) (akismet.Client, error) {
	if config == nil {
		return nil, akismet.ErrConfigRequired
	}

	endpoint, err := NormalizeEndpoint(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	normalized := *config
	normalized.Endpoint = endpoint

	akismetClient, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return akismetClient, nil
}

// NormalizeEndpoint adds "https://" when no scheme is present, lower-cases
// the scheme and trims a trailing slash. Schemes other than http and https
// are rejected with akismet.ErrInvalidEndpoint. An empty value is returned
// unchanged.
func NormalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", nil
	}

	// "host:port" parses as a scheme, so only an explicit "://" counts as one.
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", akismet.ErrInvalidEndpoint, err)
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", akismet.ErrInvalidEndpoint, parsed.Scheme)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", akismet.ErrInvalidEndpoint, endpoint)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawPath = ""

	return parsed.String(), nil
}

// NewWithKey creates a client for the given API key and blog URL.
func NewWithKey(apiKey, blogURL string) (akismet.Client, error) {
	return New(&akismet.Config{
		APIKey: apiKey,
		Blog:   akismet.NewBlog(blogURL),
	})
}

// NewTestClient creates a client whose requests are flagged as tests, so
// they do not train the service.
func NewTestClient(apiKey, blogURL string) (akismet.Client, error) {
	return New(&akismet.Config{
		APIKey: apiKey,
		Blog:   akismet.NewBlog(blogURL),
		IsTest: true,
	})
}
