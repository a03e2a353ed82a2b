package akismet

import (
	"strings"
	"time"

	"github.com/fivetwenty-io/akismet/internal/constants"
)

// Comment types understood by the service. Any other value is sent as is.
const (
	CommentTypeComment     = "comment"
	CommentTypePingback    = "pingback"
	CommentTypeTrackback   = "trackback"
	CommentTypeBlogPost    = "blog-post"
	CommentTypeContactForm = "contact-form"
	CommentTypeForumPost   = "forum-post"
	CommentTypeMessage     = "message"
	CommentTypeReply       = "reply"
	CommentTypeSignup      = "signup"
	CommentTypeTweet       = "tweet"
)

// Author represents the author of a comment.
//
// Setting Role to "administrator" makes the service always report ham, and
// setting Name to "viagra-test-123" makes it always report spam.
type Author struct {
	IPAddress string `json:"user_ip"                        schema:"user_ip"                        validate:"required,ip"`
	UserAgent string `json:"user_agent"                     schema:"user_agent"                     validate:"required"`
	Email     string `json:"comment_author_email,omitempty" schema:"comment_author_email,omitempty" validate:"omitempty,email"`
	Name      string `json:"comment_author,omitempty"       schema:"comment_author,omitempty"`
	Role      string `json:"user_role,omitempty"            schema:"user_role,omitempty"`
	URL       string `json:"comment_author_url,omitempty"   schema:"comment_author_url,omitempty"   validate:"omitempty,url"`
}

// NewAuthor creates an author from the two fields the service requires.
func NewAuthor(ipAddress, userAgent string) *Author {
	return &Author{IPAddress: ipAddress, UserAgent: userAgent}
}

// Languages is a list of ISO 639-1 language codes.
type Languages []string

// ParseLanguages splits a comma-separated list of language codes, trimming
// whitespace and dropping blank entries. Order is preserved.
func ParseLanguages(value string) Languages {
	languages := Languages{}

	for _, part := range strings.Split(value, ",") {
		code := strings.TrimSpace(part)
		if code != "" {
			languages = append(languages, code)
		}
	}

	return languages
}

// String returns the comma-joined form sent to the service.
func (l Languages) String() string {
	return strings.Join(ParseLanguages(strings.Join(l, ",")), ",")
}

// Blog represents the front page or home URL transmitted when making requests.
type Blog struct {
	URL       string    `json:"blog"                   schema:"blog"                   validate:"required,url"`
	Charset   string    `json:"blog_charset,omitempty" schema:"blog_charset,omitempty"`
	Languages Languages `json:"blog_lang,omitempty"    schema:"blog_lang,omitempty"`
}

// NewBlog creates a blog with the default charset.
func NewBlog(url string, languages ...string) *Blog {
	return &Blog{
		URL:       url,
		Charset:   constants.DefaultCharset,
		Languages: ParseLanguages(strings.Join(languages, ",")),
	}
}

// Comment represents a comment submitted by an author.
type Comment struct {
	Author       *Author   `schema:"-"                                  validate:"-"`
	Content      string    `schema:"comment_content,omitempty"`
	Type         string    `schema:"comment_type,omitempty"`
	Date         time.Time `schema:"comment_date_gmt,omitempty"`
	PostModified time.Time `schema:"comment_post_modified_gmt,omitempty"`
	Permalink    string    `schema:"permalink,omitempty"                 validate:"omitempty,url"`
	Referrer     string    `schema:"referrer,omitempty"                  validate:"omitempty,url"`
}

// NewComment creates a comment of the given type.
func NewComment(author *Author, content, commentType string) *Comment {
	return &Comment{Author: author, Content: content, Type: commentType}
}

// CheckResult is the verdict returned by a comment check.
type CheckResult int

const (
	// Ham means the comment is legitimate.
	Ham CheckResult = iota
	// Spam means the comment is spam.
	Spam
	// PervasiveSpam means the comment is blatant spam that can be discarded without review.
	PervasiveSpam
)

// IsSpam reports whether the verdict is any kind of spam.
func (r CheckResult) IsSpam() bool {
	return r == Spam || r == PervasiveSpam
}

// String implements fmt.Stringer.
func (r CheckResult) String() string {
	switch r {
	case Ham:
		return "ham"
	case Spam:
		return "spam"
	case PervasiveSpam:
		return "pervasive-spam"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r CheckResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
