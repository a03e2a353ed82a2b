package akismet

import (
	"errors"
	"fmt"
)

// Configuration errors. Every one of them wraps ErrInvalidConfig.
var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrConfigRequired  = fmt.Errorf("%w: config is required", ErrInvalidConfig)
	ErrAPIKeyRequired  = fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	ErrBlogRequired    = fmt.Errorf("%w: blog is required", ErrInvalidConfig)
	ErrInvalidBlog     = fmt.Errorf("%w: invalid blog", ErrInvalidConfig)
	ErrInvalidEndpoint = fmt.Errorf("%w: invalid end point", ErrInvalidConfig)
)

// Request errors, raised before anything is sent.
var (
	ErrCommentRequired = errors.New("comment is required")
	ErrInvalidComment  = errors.New("invalid comment")
)

// ErrInterceptor wraps an error returned by a request or response interceptor.
// Such errors come from the caller's own code and are never ClientErrors.
var ErrInterceptor = errors.New("interceptor failed")

// Kinds of ClientError.
var (
	ErrTransport          = errors.New("transport failure")
	ErrHTTPStatus         = errors.New("unexpected HTTP status")
	ErrDebugHelp          = errors.New("request rejected by the service")
	ErrUnexpectedResponse = errors.New("unexpected response body")
)

// ClientError is returned when a request to the service fails.
type ClientError struct {
	// Kind is one of ErrTransport, ErrHTTPStatus, ErrDebugHelp or ErrUnexpectedResponse.
	Kind error
	// URL is the end point that was queried.
	URL string
	// StatusCode is set for ErrHTTPStatus.
	StatusCode int
	// Message carries the debug header or the unexpected body.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	msg := e.Kind.Error()

	switch {
	case e.StatusCode != 0:
		msg = fmt.Sprintf("%s %d", msg, e.StatusCode)
	case e.Message != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return fmt.Sprintf("%s (url: %s)", msg, e.URL)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *ClientError) Unwrap() []error {
	unwrapped := []error{e.Kind}
	if e.Err != nil {
		unwrapped = append(unwrapped, e.Err)
	}

	return unwrapped
}

// IsConfigurationError checks if the error comes from an invalid client configuration.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsTransportError checks if the request never got a response.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsServiceError checks if the service answered with an error status, a
// debug header or a body that could not be interpreted.
func IsServiceError(err error) bool {
	return errors.Is(err, ErrHTTPStatus) ||
		errors.Is(err, ErrDebugHelp) ||
		errors.Is(err, ErrUnexpectedResponse)
}

// StatusCode returns the HTTP status carried by the error, or 0.
func StatusCode(err error) int {
	clientErr := &ClientError{}
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}

	return 0
}
