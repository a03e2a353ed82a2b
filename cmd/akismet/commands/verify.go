package commands

import (
	"strconv"

	"github.com/spf13/cobra"
)

// KeyStatus is the result of the verify-key command.
type KeyStatus struct {
	Blog  string `json:"blog"  yaml:"blog"`
	Valid bool   `json:"valid" yaml:"valid"`
}

// NewVerifyKeyCommand creates the verify-key command.
func NewVerifyKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-key",
		Short: "Verify the configured API key",
		Long:  "Check that the configured API key is valid for the configured blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			client, err := clientFactory(config)
			if err != nil {
				return err
			}

			valid, err := client.VerifyKey(cmd.Context())
			if err != nil {
				return err
			}

			status := KeyStatus{Blog: config.Blog, Valid: valid}

			return render(cmd.OutOrStdout(), status, [][]string{
				{"Blog", config.Blog},
				{"Valid", strconv.FormatBool(valid)},
			})
		},
	}
}
