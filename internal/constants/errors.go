package constants

import "errors"

// Configuration errors.
var (
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrAPIKeyNotSet      = errors.New("no API key configured, use 'akismet config set api_key' or --api-key")
	ErrBlogNotSet        = errors.New("no blog URL configured, use 'akismet config set blog' or --blog")
	ErrEmptyAPIKeyPrompt = errors.New("API key cannot be empty")
)

// Command errors.
var (
	ErrInvalidDate        = errors.New("invalid date, expected RFC 3339")
	ErrUnknownOutput      = errors.New("unknown output format")
	ErrUnsupportedFile    = errors.New("unsupported comment file extension, expected .json, .yml or .yaml")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrMissingCommentData = errors.New("comment is required for this operation")
)
