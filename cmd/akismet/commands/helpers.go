package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
	"github.com/fivetwenty-io/akismet/pkg/akismetclient"
)

// Common string constants used throughout the commands package.
const (
	NotSet = "(not set)"
	Masked = "***"

	// JSON formatting.
	defaultJSONIndent = 2

	// Number of API key characters left visible when masked.
	visibleKeyChars = 4
)

// apexLogger adapts apex/log to akismet.Logger.
type apexLogger struct {
	logger log.Interface
}

// NewLogger returns an akismet.Logger writing through the apex/log default logger.
func NewLogger() akismet.Logger {
	return &apexLogger{logger: log.Log}
}

func (l *apexLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(log.Fields(fields)).Debug(msg)
}

func (l *apexLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(log.Fields(fields)).Info(msg)
}

func (l *apexLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.WithFields(log.Fields(fields)).Warn(msg)
}

func (l *apexLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(log.Fields(fields)).Error(msg)
}

// clientFactory builds the client used by the commands. Tests replace it.
var clientFactory = newClientFromConfig

// newClientFromConfig creates an Akismet client from the CLI configuration.
func newClientFromConfig(config *Config) (akismet.Client, error) {
	if config.APIKey == "" {
		return nil, constants.ErrAPIKeyNotSet
	}

	if config.Blog == "" {
		return nil, constants.ErrBlogNotSet
	}

	client, err := akismetclient.New(buildClientConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// buildClientConfig maps the CLI configuration onto the library configuration.
func buildClientConfig(config *Config) *akismet.Config {
	blog := akismet.NewBlog(config.Blog, config.BlogLang)
	if config.BlogCharset != "" {
		blog.Charset = config.BlogCharset
	}

	return &akismet.Config{
		APIKey:      config.APIKey,
		Blog:        blog,
		Endpoint:    config.Endpoint,
		IsTest:      config.IsTest,
		UserAgent:   config.UserAgent,
		HTTPTimeout: constants.DefaultHTTPTimeout,
		Logger:      NewLogger(),
		Debug:       viper.GetBool("verbose"),
	}
}

// outputFormat returns the validated output format.
func outputFormat() (string, error) {
	output := viper.GetString("output")

	switch output {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrUnknownOutput, output)
	}
}

// render writes value as JSON or YAML, or rows as a property table.
func render(out io.Writer, value interface{}, rows [][]string) error {
	output, err := outputFormat()
	if err != nil {
		return err
	}

	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		defer func() {
			_ = encoder.Close()
		}()

		return encoder.Encode(value)
	default:
		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")

		for _, row := range rows {
			_ = table.Append(row)
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

// maskKey hides all but the last characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return NotSet
	}

	if len(key) <= visibleKeyChars {
		return Masked
	}

	return Masked + key[len(key)-visibleKeyChars:]
}

func valueOrNotSet(value string) string {
	if value == "" {
		return NotSet
	}

	return value
}
