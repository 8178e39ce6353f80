// Package validation is the single schema layer for request payloads.
package validation

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"regexp"
	"strings"

	"gudang/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validator checks struct tags and reports failures by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom tags used by request payloads.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	// registration cannot fail for a non-empty tag and non-nil func
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a 400 AppError listing every failed field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fieldPath(fe)
		if _, seen := fields[field]; !seen {
			fields[field] = message(fe)
		}
	}
	return apperrors.Validation("Validation failed", fields)
}

// Decoder details are logged, never returned to the client.
const (
	MsgInvalidBody  = "Invalid request body"
	MsgInvalidQuery = "Invalid query parameters"
)

// ParseBody decodes the JSON body into out and validates it.
func (v *Validator) ParseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body on %s %s: %v", c.Method(), c.Path(), err)
		return apperrors.Validation(MsgInvalidBody, map[string]string{"body": "must be a valid JSON object with correctly typed fields"})
	}
	return v.Struct(out)
}

// ParseQuery decodes the query string into out and validates it.
func (v *Validator) ParseQuery(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		log.Printf("Error parsing query on %s %s: %v", c.Method(), c.Path(), err)
		return apperrors.Validation(MsgInvalidQuery, map[string]string{"query": "contains a value of the wrong type"})
	}
	return v.Struct(out)
}

// fieldPath drops the root struct name: "CreateProductRequest.supplier.name" -> "supplier.name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return "may only contain letters, numbers and underscores"
	case "notblank":
		return "must not be blank"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
