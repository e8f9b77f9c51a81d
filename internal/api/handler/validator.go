package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clubhub/clubhub-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in errors are the JSON names clients send.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures come back as
// domain BadRequest errors: missing_field for absent required fields,
// invalid_id for malformed ObjectIDs and invalid_field for the rest.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var missing, badIDs, invalid []string
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			missing = append(missing, fe.Field())
		case "mongodb":
			badIDs = append(badIDs, fe.Field())
		default:
			invalid = append(invalid, fieldError(fe))
		}
	}
	switch {
	case len(missing) > 0:
		return domain.BadRequest("missing_field", "Missing parameters: "+strings.Join(missing, ", "))
	case len(badIDs) > 0:
		return domain.BadRequest("invalid_id", "Invalid id: "+strings.Join(badIDs, ", "))
	default:
		return domain.BadRequest("invalid_field", strings.Join(invalid, "; "))
	}
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid url"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param() + " long"
	default:
		return field + " failed validation (" + fe.Tag() + ")"
	}
}
