package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError reports a single field that failed a declared constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors collects every failed field for one document.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks u against its declared field constraints and returns a
// ValidationErrors describing every violation, or nil if the document is
// valid. Password is validated as plaintext, so this must run before the
// pre-persist hashing step.
func (u *User) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	return formatValidationErrors(err)
}

// ValidatePartial checks only the named struct fields, for update paths
// where the document was fetched without its password.
func (u *User) ValidatePartial(fields ...string) error {
	err := validate.StructPartial(u, fields...)
	if err == nil {
		return nil
	}
	return formatValidationErrors(err)
}

func formatValidationErrors(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := make(ValidationErrors, len(ve))
	for i, fe := range ve {
		out[i] = ValidationError{Field: fe.Field(), Tag: fe.Tag()}
		switch fe.Tag() {
		case "required":
			out[i].Message = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[i].Message = "Please provide a valid email address"
		case "max":
			out[i].Message = fmt.Sprintf("%s cannot be more than %s characters", fe.Field(), fe.Param())
		case "min":
			out[i].Message = fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		default:
			out[i].Message = fmt.Sprintf("Validation failed on field %s for tag %s", fe.Field(), fe.Tag())
		}
	}
	return out
}
