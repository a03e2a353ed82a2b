package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/akismet/internal/constants"
	"github.com/fivetwenty-io/akismet/pkg/akismet"
)

// CheckOutput is the result of the check command.
type CheckOutput struct {
	Result akismet.CheckResult `json:"result" yaml:"result"`
	Spam   bool                `json:"spam"   yaml:"spam"`
}

// SubmitOutput is the result of the submit commands.
type SubmitOutput struct {
	Submitted string `json:"submitted" yaml:"submitted"`
}

// commentFlags holds the flags describing a comment.
type commentFlags struct {
	author       string
	email        string
	ip           string
	userAgent    string
	authorURL    string
	role         string
	content      string
	commentType  string
	permalink    string
	referrer     string
	date         string
	postModified string
	fromFile     string
}

func (f *commentFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.author, "author", "", "author name")
	flags.StringVar(&f.email, "email", "", "author email address")
	flags.StringVar(&f.ip, "ip", "", "author IP address")
	flags.StringVar(&f.userAgent, "user-agent", "", "author user agent")
	flags.StringVar(&f.authorURL, "author-url", "", "author website URL")
	flags.StringVar(&f.role, "role", "", "author role, \"administrator\" always yields ham")
	flags.StringVar(&f.content, "content", "", "comment content")
	flags.StringVarP(&f.commentType, "type", "T", "", "comment type (comment, forum-post, reply, signup, ...)")
	flags.StringVar(&f.permalink, "permalink", "", "URL of the commented entry")
	flags.StringVar(&f.referrer, "referrer", "", "HTTP referrer of the comment form")
	flags.StringVar(&f.date, "date", "", "comment creation date (RFC 3339)")
	flags.StringVar(&f.postModified, "post-modified", "", "commented entry modification date (RFC 3339)")
	flags.StringVarP(&f.fromFile, "from-file", "f", "", "read the comment from a JSON or YAML file of wire fields")
}

// fields returns the wire fields set through the flags.
func (f *commentFlags) fields() (map[string]string, error) {
	fields := map[string]string{
		"comment_author":       f.author,
		"comment_author_email": f.email,
		"user_ip":              f.ip,
		"user_agent":           f.userAgent,
		"comment_author_url":   f.authorURL,
		"user_role":            f.role,
		"comment_content":      f.content,
		"comment_type":         f.commentType,
		"permalink":            f.permalink,
		"referrer":             f.referrer,
	}

	dates := map[string]string{
		"comment_date_gmt":          f.date,
		"comment_post_modified_gmt": f.postModified,
	}

	for key, value := range dates {
		if value == "" {
			continue
		}

		_, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", constants.ErrInvalidDate, value)
		}

		fields[key] = value
	}

	for key, value := range fields {
		if value == "" {
			delete(fields, key)
		}
	}

	return fields, nil
}

// comment builds the comment from the file, if any, overridden by flags.
func (f *commentFlags) comment() (*akismet.Comment, error) {
	fields := map[string]string{}

	if f.fromFile != "" {
		fileFields, err := readCommentFile(f.fromFile)
		if err != nil {
			return nil, err
		}

		fields = fileFields
	}

	flagFields, err := f.fields()
	if err != nil {
		return nil, err
	}

	for key, value := range flagFields {
		fields[key] = value
	}

	comment, err := akismet.CommentFromFields(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build comment: %w", err)
	}

	return comment, nil
}

func readCommentFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read comment file: %w", err)
	}

	fields := map[string]string{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &fields)
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &fields)
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnsupportedFile, path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse comment file: %w", err)
	}

	return fields, nil
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	flags := &commentFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a comment is spam",
		Long: `Check whether a comment is spam.

The comment is described by flags, or by a JSON or YAML file of wire fields
(user_ip, user_agent, comment_content, ...) given with --from-file. Flags
override the values read from the file.`,
		Example: `  akismet check --ip 192.0.2.1 --user-agent "Mozilla/5.0" --author viagra-test-123 --content "Buy now"
  akismet check --from-file comment.yml --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := flags.comment()
			if err != nil {
				return err
			}

			client, err := clientFactory(loadConfig())
			if err != nil {
				return err
			}

			result, err := client.CheckComment(cmd.Context(), comment)
			if err != nil {
				return err
			}

			output := CheckOutput{Result: result, Spam: result.IsSpam()}

			return render(cmd.OutOrStdout(), output, [][]string{
				{"Result", result.String()},
				{"Spam", fmt.Sprintf("%t", result.IsSpam())},
			})
		},
	}

	flags.register(cmd)

	return cmd
}

// NewSubmitHamCommand creates the submit-ham command.
func NewSubmitHamCommand() *cobra.Command {
	return newSubmitCommand("submit-ham", "ham",
		"Report a comment wrongly flagged as spam",
		func(cmd *cobra.Command, client akismet.Client, comment *akismet.Comment) error {
			return client.SubmitHam(cmd.Context(), comment)
		})
}

// NewSubmitSpamCommand creates the submit-spam command.
func NewSubmitSpamCommand() *cobra.Command {
	return newSubmitCommand("submit-spam", "spam",
		"Report a spam comment that was not caught",
		func(cmd *cobra.Command, client akismet.Client, comment *akismet.Comment) error {
			return client.SubmitSpam(cmd.Context(), comment)
		})
}

type submitFunc func(cmd *cobra.Command, client akismet.Client, comment *akismet.Comment) error

func newSubmitCommand(use, kind, short string, submit submitFunc) *cobra.Command {
	flags := &commentFlags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". The comment is described the same way as for the check command.",
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := flags.comment()
			if err != nil {
				return err
			}

			client, err := clientFactory(loadConfig())
			if err != nil {
				return err
			}

			err = submit(cmd, client, comment)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), SubmitOutput{Submitted: kind}, [][]string{
				{"Submitted", kind},
			})
		},
	}

	flags.register(cmd)

	return cmd
}
