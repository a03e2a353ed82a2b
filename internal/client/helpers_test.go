package client_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/akismet/internal/client"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

const (
	testAPIKey   = "123YourAPIKey"
	testBlog     = "https://www.example.com"
	testEndpoint = "http://rest.akismet.test"
	keyedHost    = testAPIKey + ".rest.akismet.test"
	plainHost    = "rest.akismet.test"
)

// countingTransport counts the requests reaching the network.
type countingTransport struct {
	base  http.RoundTripper
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)

	return c.base.RoundTrip(req)
}

// newTestServer starts a server and returns an HTTP client that sends every
// request to it, whatever the host name of the URL.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*countingTransport, *http.Client) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dialer := &net.Dialer{}
	transport := &countingTransport{base: &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, server.Listener.Addr().String())
		},
	}}

	return transport, &http.Client{Transport: transport}
}

// newTestConfig returns a valid configuration using httpClient.
func newTestConfig(httpClient *http.Client) *akismet.Config {
	return &akismet.Config{
		APIKey:     testAPIKey,
		Blog:       akismet.NewBlog(testBlog, "en", "fr"),
		Endpoint:   testEndpoint,
		HTTPClient: httpClient,
	}
}

// newTestClient creates a client talking to a server running handler.
func newTestClient(t *testing.T, handler http.HandlerFunc, configure ...func(*akismet.Config)) (*client.Client, *countingTransport) {
	t.Helper()

	transport, httpClient := newTestServer(t, handler)

	config := newTestConfig(httpClient)
	for _, fn := range configure {
		fn(config)
	}

	c, err := client.New(config)
	require.NoError(t, err)

	return c, transport
}

func testComment() *akismet.Comment {
	author := akismet.NewAuthor("192.0.2.1", "Mozilla/5.0 (X11; Linux x86_64)")
	author.Name = "Akismet"
	author.Email = "test@example.com"

	comment := akismet.NewComment(author, "A user comment.", akismet.CommentTypeComment)
	comment.Permalink = "https://www.example.com/posts/1"

	return comment
}
