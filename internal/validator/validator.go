package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the project's custom rules.
type Validator struct {
	validate *validator.Validate
}

// ValidationError carries per-field messages for the API response.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerCustomRules(v)
	return &Validator{validate: v}
}

// Validate checks the struct and converts field errors into a
// *ValidationError; any other failure is returned as-is.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strings.ToLower(fe.Field())] = messageFor(fe)
	}
	return &ValidationError{Errors: out}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "is-plan-type":
		return "must be one of BASIC, INTERMEDIATE, PREMIUM"
	case "is-business-status":
		return "is not a valid business status"
	case "is-content-type":
		return "must be one of text, image, video, audio, pdf"
	case "is-trigger":
		return "must be 'registration' or 'scheduled'"
	case "is-term":
		return "is not a valid subscription term"
	case "is-segment":
		return "is not a valid audience segment"
	case "is-timeofday":
		return "must be in HH:MM format"
	default:
		return fmt.Sprintf("failed rule '%s'", fe.Tag())
	}
}
