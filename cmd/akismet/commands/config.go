package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/akismet/internal/constants"
)

// Configuration keys.
const (
	KeyAPIKey      = "api_key"
	KeyBlog        = "blog"
	KeyBlogCharset = "blog_charset"
	KeyBlogLang    = "blog_lang"
	KeyEndpoint    = "endpoint"
	KeyIsTest      = "is_test"
	KeyUserAgent   = "user_agent"
	KeyOutput      = "output"
)

// Config represents the CLI configuration.
type Config struct {
	APIKey      string `json:"api_key,omitempty"      yaml:"api_key,omitempty"`
	Blog        string `json:"blog,omitempty"         yaml:"blog,omitempty"`
	BlogCharset string `json:"blog_charset,omitempty" yaml:"blog_charset,omitempty"`
	BlogLang    string `json:"blog_lang,omitempty"    yaml:"blog_lang,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"     yaml:"endpoint,omitempty"`
	IsTest      bool   `json:"is_test"                yaml:"is_test"`
	UserAgent   string `json:"user_agent,omitempty"   yaml:"user_agent,omitempty"`
	Output      string `json:"output,omitempty"       yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the Akismet CLI configuration stored in " + filepath.Join("~", constants.ConfigDirName, constants.ConfigFileName+".yml"),
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration, with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			if masked.APIKey != "" {
				masked.APIKey = maskKey(masked.APIKey)
			}

			rows := [][]string{
				{"API Key", maskKey(config.APIKey)},
				{"Blog", valueOrNotSet(config.Blog)},
				{"Blog Charset", valueOrNotSet(config.BlogCharset)},
				{"Blog Languages", valueOrNotSet(config.BlogLang)},
				{"End Point", valueOrNotSet(config.Endpoint)},
				{"Test Mode", strconv.FormatBool(config.IsTest)},
				{"User Agent", valueOrNotSet(config.UserAgent)},
				{"Output", valueOrNotSet(config.Output)},
			}

			return render(cmd.OutOrStdout(), masked, rows)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY [VALUE]",
		Short: "Set a configuration value",
		Long: "Set a configuration value. Keys: api_key, blog, blog_charset, blog_lang, endpoint, is_test, user_agent, output.\n" +
			"When api_key is given without a value, it is read from the terminal without echo.",
		Args: cobra.RangeArgs(1, constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			var value string
			if len(args) == constants.MinimumArgumentCount {
				value = args[1]
			} else {
				if key != KeyAPIKey {
					return fmt.Errorf("a value is required for %s", key)
				}

				prompted, err := promptAPIKey(cmd)
				if err != nil {
					return err
				}

				value = prompted
			}

			config, err := readConfigFile()
			if err != nil {
				return err
			}

			err = setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			shown := value
			if key == KeyAPIKey {
				shown = maskKey(value)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, shown)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			config, err := readConfigFile()
			if err != nil {
				return err
			}

			err = unsetConfigValue(config, key)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared all configuration")

			return nil
		},
	}
}

// loadConfig reads the configuration from viper, which merges flags,
// environment variables and the config file.
func loadConfig() *Config {
	return configFrom(viper.GetViper())
}

// readConfigFile reads only the config file, so that values coming from
// flags or the environment are never written back to it. A missing file
// yields an empty configuration.
func readConfigFile() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	_, err = os.Stat(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}

	fileViper := viper.New()
	fileViper.SetConfigFile(configFile)
	fileViper.SetConfigType("yaml")

	err = fileViper.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return configFrom(fileViper), nil
}

func configFrom(v *viper.Viper) *Config {
	return &Config{
		APIKey:      v.GetString(KeyAPIKey),
		Blog:        v.GetString(KeyBlog),
		BlogCharset: v.GetString(KeyBlogCharset),
		BlogLang:    v.GetString(KeyBlogLang),
		Endpoint:    v.GetString(KeyEndpoint),
		IsTest:      v.GetBool(KeyIsTest),
		UserAgent:   v.GetString(KeyUserAgent),
		Output:      v.GetString(KeyOutput),
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case KeyAPIKey:
		config.APIKey = value
	case KeyBlog:
		config.Blog = value
	case KeyBlogCharset:
		config.BlogCharset = value
	case KeyBlogLang:
		config.BlogLang = value
	case KeyEndpoint:
		config.Endpoint = value
	case KeyIsTest:
		isTest, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		config.IsTest = isTest
	case KeyUserAgent:
		config.UserAgent = value
	case KeyOutput:
		config.Output = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	viper.Set(key, value)

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	var zero Config

	switch key {
	case KeyAPIKey:
		config.APIKey = zero.APIKey
	case KeyBlog:
		config.Blog = zero.Blog
	case KeyBlogCharset:
		config.BlogCharset = zero.BlogCharset
	case KeyBlogLang:
		config.BlogLang = zero.BlogLang
	case KeyEndpoint:
		config.Endpoint = zero.Endpoint
	case KeyIsTest:
		config.IsTest = zero.IsTest
	case KeyUserAgent:
		config.UserAgent = zero.UserAgent
	case KeyOutput:
		config.Output = zero.Output
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	viper.Set(key, nil)

	return nil
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+".yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// promptAPIKey reads the API key without echo when stdin is a terminal.
func promptAPIKey(cmd *cobra.Command) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "API key: ")

	var key string

	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in an int
	if term.IsTerminal(fd) {
		keyBytes, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		key = string(keyBytes)
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		key = line
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", constants.ErrEmptyAPIKeyPrompt
	}

	return key, nil
}
