package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	akismethttp "github.com/fivetwenty-io/akismet/internal/http"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

var errRejected = errors.New("rejected by interceptor")

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_PostForm(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/1.1/comment-check", request.URL.Path)
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))
			assert.Equal(t, "Go/1.0 | Akismet/8.0.0", request.Header.Get("User-Agent"))

			assert.NoError(t, request.ParseForm())
			assert.Equal(t, "https://www.example.com", request.PostForm.Get("blog"))
			assert.Equal(t, "Hello World!", request.PostForm.Get("comment_content"))

			writer.Header().Set("X-Akismet-Pro-Tip", "discard")
			_, _ = io.WriteString(writer, "true")
		}))
		defer server.Close()

		client := akismethttp.NewClient(akismethttp.WithUserAgent("Go/1.0 | Akismet/8.0.0"))

		resp, err := client.PostForm(context.Background(), server.URL+"/1.1/comment-check", url.Values{
			"blog":            {"https://www.example.com"},
			"comment_content": {"Hello World!"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "true", string(resp.Body))
		assert.Equal(t, "discard", resp.Headers.Get("X-Akismet-Pro-Tip"))
	})

	t.Run("error status is returned without retry", func(t *testing.T) {
		t.Parallel()

		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls++

			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := akismethttp.NewClient()

		resp, err := client.PostForm(context.Background(), server.URL, url.Values{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		serverURL := server.URL
		server.Close()

		client := akismethttp.NewClient()

		resp, err := client.PostForm(context.Background(), serverURL, url.Values{})
		require.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := akismethttp.NewClient(akismethttp.WithTimeout(20 * time.Millisecond))

		_, err := client.PostForm(context.Background(), server.URL, url.Values{})
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := akismethttp.NewClient().PostForm(ctx, server.URL, url.Values{})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("request and response interceptors run", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "yes", request.Header.Get("X-Intercepted"))
			_, _ = io.WriteString(writer, "valid")
		}))
		defer server.Close()

		var seen *akismet.Response

		chain := akismet.NewInterceptorChain().
			AddRequestInterceptor(akismet.HeaderInterceptor(map[string]string{"X-Intercepted": "yes"})).
			AddResponseInterceptor(func(_ context.Context, _ *akismet.Request, resp *akismet.Response) error {
				seen = resp

				return nil
			})

		client := akismethttp.NewClient(akismethttp.WithInterceptors(chain))

		_, err := client.PostForm(context.Background(), server.URL, url.Values{})
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, "valid", string(seen.Body))
	})

	t.Run("failing request interceptor stops the request", func(t *testing.T) {
		t.Parallel()

		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			calls++
		}))
		defer server.Close()

		chain := akismet.NewInterceptorChain().
			AddRequestInterceptor(func(context.Context, *akismet.Request) error {
				return errRejected
			})

		client := akismethttp.NewClient(akismethttp.WithInterceptors(chain))

		_, err := client.PostForm(context.Background(), server.URL, url.Values{})
		require.ErrorIs(t, err, errRejected)
		require.ErrorIs(t, err, akismet.ErrInterceptor)
		assert.Equal(t, 0, calls)
	})
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-Akismet-Debug-Help", "Empty \"blog\" value")
		_, _ = io.WriteString(writer, "invalid")
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := akismethttp.NewClient(akismethttp.WithLogger(logger), akismethttp.WithDebug(true))

	_, err := client.PostForm(context.Background(), server.URL+"/1.1/verify-key", url.Values{"key": {"secret"}})
	require.NoError(t, err)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
	assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

	fields, ok := logger.logs[1]["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, fields["status_code"])
	assert.Equal(t, "verify-key", fields["operation"])
	assert.Equal(t, "Empty \"blog\" value", fields["debug_help"])
}

func TestClient_NoLoggingWithoutDebug(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, "valid")
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := akismethttp.NewClient(akismethttp.WithLogger(logger))

	_, err := client.PostForm(context.Background(), server.URL, url.Values{})
	require.NoError(t, err)
	assert.Empty(t, logger.logs)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	transport := &countingTransport{base: http.DefaultTransport}
	original := &http.Client{Transport: transport}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, "false")
	}))
	defer server.Close()

	client := akismethttp.NewClient(
		akismethttp.WithHTTPClient(original),
		akismethttp.WithTimeout(time.Second),
	)

	_, err := client.PostForm(context.Background(), server.URL, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, transport.calls)
	assert.Zero(t, original.Timeout)
}

type countingTransport struct {
	base  http.RoundTripper
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++

	return c.base.RoundTrip(req)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// trackedBody records whether it was closed.
type trackedBody struct {
	io.Reader

	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true

	return nil
}

func TestClient_CancelledResponseBodyIsClosed(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	body := &trackedBody{Reader: strings.NewReader("true")}

	// The response arrives, but the context is cancelled before the client
	// looks at it.
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		cancel()

		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       body,
			Request:    req,
		}, nil
	})

	client := akismethttp.NewClient(akismethttp.WithHTTPClient(&http.Client{Transport: transport}))

	resp, err := client.PostForm(ctx, "http://rest.akismet.test/1.1/comment-check", url.Values{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, resp)
	assert.True(t, body.closed)
}
