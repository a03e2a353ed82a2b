package commands

import (
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/akismet/internal/constants"
)

// VersionInfo describes the CLI build.
type VersionInfo struct {
	Version       string `json:"version"        yaml:"version"`
	Commit        string `json:"commit"         yaml:"commit"`
	Built         string `json:"built"          yaml:"built"`
	ClientVersion string `json:"client_version" yaml:"client_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the Akismet CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:       version,
				Commit:        commit,
				Built:         date,
				ClientVersion: constants.Version,
			}

			return render(cmd.OutOrStdout(), info, [][]string{
				{"Version", version},
				{"Commit", commit},
				{"Built", date},
				{"Client Version", constants.Version},
			})
		},
	}
}
