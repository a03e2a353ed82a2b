package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/akismet/cmd/akismet/commands"
	"github.com/fivetwenty-io/akismet/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "akismet",
	Short: "Akismet spam detection CLI",
	Long: `A command-line interface for the Akismet anti-spam service.

Check comments for spam, report false positives and missed spam, verify
API keys, or serve requests received over NATS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetHandler(cli.New(os.Stderr))
	log.SetLevel(log.InfoLevel)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.akismet/config.yml)")
	rootCmd.PersistentFlags().StringP("api-key", "k", "", "Akismet API key")
	rootCmd.PersistentFlags().StringP("blog", "b", "", "front page or home URL of the site")
	rootCmd.PersistentFlags().String("endpoint", "", "API endpoint URL (default is "+constants.DefaultEndpoint+")")
	rootCmd.PersistentFlags().Bool("test", false, "send requests in test mode")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(commands.KeyAPIKey, rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag(commands.KeyBlog, rootCmd.PersistentFlags().Lookup("blog"))
	_ = viper.BindPFlag(commands.KeyEndpoint, rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag(commands.KeyIsTest, rootCmd.PersistentFlags().Lookup("test"))
	_ = viper.BindPFlag(commands.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewVerifyKeyCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewSubmitHamCommand())
	rootCmd.AddCommand(commands.NewSubmitSpamCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.WithError(err).Fatal("cannot locate home directory")
		}

		// Search config in ~/.akismet/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	// Read in environment variables that match, e.g. AKISMET_API_KEY
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	err := viper.ReadInConfig()
	if err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
