package constants

import "time"

// Library identity.
const (
	// Version is the version number of this package.
	Version = "8.0.0"

	// DefaultEndpoint is the base URL of the Akismet REST API.
	DefaultEndpoint = "https://rest.akismet.com"

	// APIVersion is the path segment prepended to every operation.
	APIVersion = "1.1"

	// DefaultCharset is the character encoding assumed for blog content.
	DefaultCharset = "UTF-8"
)

// Remote operations.
const (
	OperationCommentCheck = "comment-check"
	OperationSubmitHam    = "submit-ham"
	OperationSubmitSpam   = "submit-spam"
	OperationVerifyKey    = "verify-key"
)

// Response bodies and headers of the remote service.
const (
	// HeaderDebugHelp carries the reason a request was rejected, even on a 2xx status.
	HeaderDebugHelp = "X-Akismet-Debug-Help"

	// HeaderProTip carries advice about a spam verdict.
	HeaderProTip = "X-Akismet-Pro-Tip"

	// ProTipDiscard marks spam that can be discarded without review.
	ProTipDiscard = "discard"

	BodyTrue    = "true"
	BodyFalse   = "false"
	BodyValid   = "valid"
	BodyInvalid = "invalid"

	// TestModeValue is sent as is_test when the client runs in test mode.
	TestModeValue = "1"
)

// HTTP request settings.
const (
	// FormContentType is the content type of every request body.
	FormContentType = "application/x-www-form-urlencoded"

	// DefaultHTTPTimeout is the default timeout used by the CLI.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout bounds verify-key calls issued by the CLI.
	ShortHTTPTimeout = 10 * time.Second
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// CLI settings.
const (
	// ConfigDirName is the directory under $HOME holding the CLI configuration.
	ConfigDirName = ".akismet"

	// ConfigFileName is the base name of the CLI configuration file.
	ConfigFileName = "config"

	// EnvPrefix is the prefix of environment variables read by the CLI.
	EnvPrefix = "AKISMET"

	// MinimumArgumentCount is the number of arguments taken by "config set".
	MinimumArgumentCount = 2
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Worker settings.
const (
	// DefaultSubject is the NATS subject served by the worker.
	DefaultSubject = "akismet.requests"

	// DefaultQueueGroup balances requests across worker instances.
	DefaultQueueGroup = "akismet-workers"

	// DefaultNATSURL is used when no server is configured.
	DefaultNATSURL = "nats://127.0.0.1:4222"
)
