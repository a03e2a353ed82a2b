//go:build integration

package integration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/akismet/pkg/akismet"
	"github.com/fivetwenty-io/akismet/pkg/akismetclient"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIKey   string
	Blog     string
	Endpoint string
	Verbose  bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIKey:   os.Getenv("AKISMET_API_KEY"),
		Blog:     os.Getenv("AKISMET_BLOG"),
		Endpoint: os.Getenv("AKISMET_ENDPOINT"),
		Verbose:  os.Getenv("AKISMET_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test when no live credentials are available.
func (c *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if c.APIKey == "" || c.Blog == "" {
		t.Skip("AKISMET_API_KEY and AKISMET_BLOG must be set to run integration tests")
	}
}

// NewClient creates a test-mode client for the live service.
func (c *TestConfig) NewClient(t *testing.T) akismet.Client {
	t.Helper()

	client, err := akismetclient.New(&akismet.Config{
		APIKey:   c.APIKey,
		Blog:     akismet.NewBlog(c.Blog),
		Endpoint: c.Endpoint,
		IsTest:   true,
	})
	require.NoError(t, err)

	return client
}

// NewAuthor returns an author the service treats as a regular visitor.
func NewAuthor() *akismet.Author {
	return akismet.NewAuthor("192.0.2.1", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
}
