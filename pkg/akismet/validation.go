package akismet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the author fields required by the service.
func (a *Author) Validate() error {
	if a == nil {
		return nil
	}

	return validationError(validate.Struct(a))
}

// Validate checks the blog URL.
func (b *Blog) Validate() error {
	if b == nil {
		return ErrBlogRequired
	}

	return validationError(validate.Struct(b))
}

// Validate checks the comment and, when present, its author.
func (c *Comment) Validate() error {
	if c == nil {
		return ErrCommentRequired
	}

	err := validationError(validate.Struct(c))
	if err != nil {
		return err
	}

	err = c.Author.Validate()
	if err != nil {
		return fmt.Errorf("author: %w", err)
	}

	return nil
}

// validationError flattens validator errors into "field: message" pairs.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("validating: %w", err)
	}

	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, ve.Field()+": "+formatValidationError(ve))
	}

	return &ValidationError{Messages: messages}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "ip":
		return "must be a valid IP address"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}

		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// ValidationError lists the fields of a record that failed validation.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
