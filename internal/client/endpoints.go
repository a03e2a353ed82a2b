package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

// Endpoints holds the URLs of the four remote operations.
type Endpoints struct {
	CommentCheck string
	SubmitHam    string
	SubmitSpam   string
	VerifyKey    string
}

// NewEndpoints derives the operation URLs from the base end point.
//
// comment-check, submit-ham and submit-spam are served on a host prefixed
// with the API key ("https://KEY.rest.akismet.com/1.1/comment-check"),
// while verify-key is served on the end point host itself.
func NewEndpoints(endpoint, apiKey string) (*Endpoints, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", akismet.ErrInvalidEndpoint, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", akismet.ErrInvalidEndpoint, endpoint)
	}

	if strings.ContainsAny(apiKey, "/?#@:%[] \t") {
		return nil, fmt.Errorf("%w: API key cannot be used as a host name", akismet.ErrInvalidEndpoint)
	}

	if base.Path == "" {
		base.Path = "/"
	}

	keyed := *base
	keyed.Host = apiKey + "." + base.Host

	return &Endpoints{
		CommentCheck: operationURL(&keyed, constants.OperationCommentCheck),
		SubmitHam:    operationURL(&keyed, constants.OperationSubmitHam),
		SubmitSpam:   operationURL(&keyed, constants.OperationSubmitSpam),
		VerifyKey:    operationURL(base, constants.OperationVerifyKey),
	}, nil
}

func operationURL(base *url.URL, operation string) string {
	return base.JoinPath(constants.APIVersion, operation).String()
}
