package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

// CheckComment implements akismet.Client.CheckComment.
//
// The service answers "true" for spam and "false" for ham. Spam also
// flagged with the "discard" pro tip is reported as PervasiveSpam. Any
// other body is an ErrUnexpectedResponse error.
func (c *Client) CheckComment(ctx context.Context, comment *akismet.Comment) (akismet.CheckResult, error) {
	fields, err := commentFields(comment)
	if err != nil {
		return akismet.Ham, err
	}

	resp, err := c.fetch(ctx, c.endpoints.CommentCheck, fields)
	if err != nil {
		return akismet.Ham, fmt.Errorf("checking comment: %w", err)
	}

	switch resp.body {
	case constants.BodyTrue:
		if resp.headers.Get(constants.HeaderProTip) == constants.ProTipDiscard {
			return akismet.PervasiveSpam, nil
		}

		return akismet.Spam, nil
	case constants.BodyFalse:
		return akismet.Ham, nil
	default:
		return akismet.Ham, fmt.Errorf("checking comment: %w", &akismet.ClientError{
			Kind:    akismet.ErrUnexpectedResponse,
			URL:     c.endpoints.CommentCheck,
			Message: resp.body,
		})
	}
}

// SubmitHam implements akismet.Client.SubmitHam.
func (c *Client) SubmitHam(ctx context.Context, comment *akismet.Comment) error {
	fields, err := commentFields(comment)
	if err != nil {
		return err
	}

	_, err = c.fetch(ctx, c.endpoints.SubmitHam, fields)
	if err != nil {
		return fmt.Errorf("submitting ham: %w", err)
	}

	return nil
}

// SubmitSpam implements akismet.Client.SubmitSpam.
func (c *Client) SubmitSpam(ctx context.Context, comment *akismet.Comment) error {
	fields, err := commentFields(comment)
	if err != nil {
		return err
	}

	_, err = c.fetch(ctx, c.endpoints.SubmitSpam, fields)
	if err != nil {
		return fmt.Errorf("submitting spam: %w", err)
	}

	return nil
}

// VerifyKey implements akismet.Client.VerifyKey.
func (c *Client) VerifyKey(ctx context.Context) (bool, error) {
	resp, err := c.fetch(ctx, c.endpoints.VerifyKey, url.Values{"key": {c.apiKey}})
	if err != nil {
		return false, fmt.Errorf("verifying key: %w", err)
	}

	return resp.body == constants.BodyValid, nil
}

func commentFields(comment *akismet.Comment) (url.Values, error) {
	err := comment.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", akismet.ErrInvalidComment, err)
	}

	fields, err := comment.Values()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", akismet.ErrInvalidComment, err)
	}

	return fields, nil
}
