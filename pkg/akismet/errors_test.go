package akismet_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

var errBrokenPipe = errors.New("broken pipe")

func TestClientError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *akismet.ClientError
		expected string
	}{
		{
			name:     "status",
			err:      &akismet.ClientError{Kind: akismet.ErrHTTPStatus, URL: "https://rest.akismet.com/1.1/verify-key", StatusCode: 500},
			expected: "unexpected HTTP status 500 (url: https://rest.akismet.com/1.1/verify-key)",
		},
		{
			name:     "debug help",
			err:      &akismet.ClientError{Kind: akismet.ErrDebugHelp, URL: "u", Message: "Empty \"blog\" value"},
			expected: "request rejected by the service: Empty \"blog\" value (url: u)",
		},
		{
			name:     "transport",
			err:      &akismet.ClientError{Kind: akismet.ErrTransport, URL: "u", Err: errBrokenPipe},
			expected: "transport failure: broken pipe (url: u)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorClassification(t *testing.T) {
	transport := fmt.Errorf("checking comment: %w", &akismet.ClientError{
		Kind: akismet.ErrTransport,
		URL:  "u",
		Err:  errBrokenPipe,
	})
	status := fmt.Errorf("submitting ham: %w", &akismet.ClientError{
		Kind:       akismet.ErrHTTPStatus,
		URL:        "u",
		StatusCode: 503,
	})

	assert.True(t, akismet.IsTransportError(transport))
	assert.False(t, akismet.IsServiceError(transport))
	assert.ErrorIs(t, transport, errBrokenPipe)
	assert.Zero(t, akismet.StatusCode(transport))

	assert.True(t, akismet.IsServiceError(status))
	assert.False(t, akismet.IsTransportError(status))
	assert.Equal(t, 503, akismet.StatusCode(status))

	assert.True(t, akismet.IsConfigurationError(akismet.ErrAPIKeyRequired))
	assert.True(t, akismet.IsConfigurationError(fmt.Errorf("wrapped: %w", akismet.ErrInvalidEndpoint)))
	assert.False(t, akismet.IsConfigurationError(akismet.ErrInvalidComment))
	assert.Zero(t, akismet.StatusCode(errBrokenPipe))
}
