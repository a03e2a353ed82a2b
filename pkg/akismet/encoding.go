package akismet

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/gorilla/schema"
)

// DateFormat is the layout of the dates sent to the service.
const DateFormat = "2006-01-02T15:04:05-07:00"

var (
	formEncoder = schema.NewEncoder()
	formDecoder = schema.NewDecoder()
)

func init() {
	formEncoder.RegisterEncoder(time.Time{}, func(value reflect.Value) string {
		date, _ := value.Interface().(time.Time)
		if date.IsZero() {
			return ""
		}

		return date.UTC().Format(DateFormat)
	})

	formEncoder.RegisterEncoder(Languages{}, func(value reflect.Value) string {
		languages, _ := value.Interface().(Languages)

		return languages.String()
	})

	formDecoder.IgnoreUnknownKeys(true)
	formDecoder.RegisterConverter(time.Time{}, func(value string) reflect.Value {
		if value == "" {
			return reflect.ValueOf(time.Time{})
		}

		date, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(date.UTC())
	})
}

func encodeForm(source interface{}) (url.Values, error) {
	values := url.Values{}

	err := formEncoder.Encode(source, values)
	if err != nil {
		return nil, fmt.Errorf("encoding form fields: %w", err)
	}

	for key, list := range values {
		if len(list) == 0 || list[0] == "" {
			delete(values, key)
		}
	}

	return values, nil
}

func decodeForm(target interface{}, values url.Values) error {
	err := formDecoder.Decode(target, values)
	if err != nil {
		return fmt.Errorf("decoding form fields: %w", err)
	}

	return nil
}

// mergeValues copies every entry of the sources into a new set; later sources win.
func mergeValues(sources ...url.Values) url.Values {
	merged := url.Values{}

	for _, source := range sources {
		for key, list := range source {
			merged[key] = append([]string(nil), list...)
		}
	}

	return merged
}

func flatten(values url.Values) map[string]string {
	fields := make(map[string]string, len(values))
	for key := range values {
		fields[key] = values.Get(key)
	}

	return fields
}

func unflatten(fields map[string]string) url.Values {
	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}

	return values
}

func describe(kind string, values url.Values, err error) string {
	if err != nil {
		return fmt.Sprintf("%s {error: %v}", kind, err)
	}

	data, err := json.Marshal(flatten(values))
	if err != nil {
		return kind + " {}"
	}

	return kind + " " + string(data)
}

// Values returns the wire fields of the author. Empty fields are omitted.
func (a *Author) Values() (url.Values, error) {
	return encodeForm(a)
}

// AuthorFromValues builds an author from wire fields.
func AuthorFromValues(values url.Values) (*Author, error) {
	author := &Author{}

	err := decodeForm(author, values)
	if err != nil {
		return nil, err
	}

	return author, nil
}

// IsZero reports whether no field of the author is set.
func (a *Author) IsZero() bool {
	return a == nil || *a == Author{}
}

// MarshalJSON implements json.Marshaler using the wire field names.
func (a *Author) MarshalJSON() ([]byte, error) {
	values, err := a.Values()
	if err != nil {
		return nil, err
	}

	return json.Marshal(flatten(values))
}

// UnmarshalJSON implements json.Unmarshaler using the wire field names.
func (a *Author) UnmarshalJSON(data []byte) error {
	var fields map[string]string

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("parsing author: %w", err)
	}

	author, err := AuthorFromValues(unflatten(fields))
	if err != nil {
		return err
	}

	*a = *author

	return nil
}

// String implements fmt.Stringer.
func (a *Author) String() string {
	values, err := a.Values()

	return describe("akismet.Author", values, err)
}

// Values returns the wire fields of the blog. Empty fields are omitted.
func (b *Blog) Values() (url.Values, error) {
	return encodeForm(b)
}

// BlogFromValues builds a blog from wire fields.
func BlogFromValues(values url.Values) (*Blog, error) {
	blog := &Blog{}

	err := decodeForm(blog, values)
	if err != nil {
		return nil, err
	}

	blog.Languages = ParseLanguages(strings.Join(blog.Languages, ","))

	return blog, nil
}

// MarshalJSON implements json.Marshaler using the wire field names.
func (b *Blog) MarshalJSON() ([]byte, error) {
	values, err := b.Values()
	if err != nil {
		return nil, err
	}

	return json.Marshal(flatten(values))
}

// UnmarshalJSON implements json.Unmarshaler using the wire field names.
func (b *Blog) UnmarshalJSON(data []byte) error {
	var fields map[string]string

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("parsing blog: %w", err)
	}

	blog, err := BlogFromValues(unflatten(fields))
	if err != nil {
		return err
	}

	*b = *blog

	return nil
}

// String implements fmt.Stringer.
func (b *Blog) String() string {
	values, err := b.Values()

	return describe("akismet.Blog", values, err)
}

// Values returns the wire fields of the comment merged with those of its
// author. Empty fields are omitted.
func (c *Comment) Values() (url.Values, error) {
	values, err := encodeForm(c)
	if err != nil {
		return nil, err
	}

	if c.Author == nil {
		return values, nil
	}

	authorValues, err := c.Author.Values()
	if err != nil {
		return nil, err
	}

	return mergeValues(authorValues, values), nil
}

// CommentFromValues builds a comment, and its author when any author field
// is present, from wire fields.
func CommentFromValues(values url.Values) (*Comment, error) {
	comment := &Comment{}

	err := decodeForm(comment, values)
	if err != nil {
		return nil, err
	}

	author, err := AuthorFromValues(values)
	if err != nil {
		return nil, err
	}

	if !author.IsZero() {
		comment.Author = author
	}

	return comment, nil
}

// MarshalJSON implements json.Marshaler using the wire field names.
func (c *Comment) MarshalJSON() ([]byte, error) {
	values, err := c.Values()
	if err != nil {
		return nil, err
	}

	return json.Marshal(flatten(values))
}

// UnmarshalJSON implements json.Unmarshaler using the wire field names.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var fields map[string]string

	err := json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("parsing comment: %w", err)
	}

	comment, err := CommentFromFields(fields)
	if err != nil {
		return err
	}

	*c = *comment

	return nil
}

// CommentFromFields builds a comment from a flat map of wire fields, such as
// one decoded from a JSON or YAML document.
func CommentFromFields(fields map[string]string) (*Comment, error) {
	return CommentFromValues(unflatten(fields))
}

// String implements fmt.Stringer.
func (c *Comment) String() string {
	values, err := c.Values()

	return describe("akismet.Comment", values, err)
}
