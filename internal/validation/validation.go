// Package validation holds the request schema validator shared by the HTTP
// layer and the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"medfinder/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate   *validator.Validate
	digitsOnly = regexp.MustCompile(`^[0-9]+$`)
)

// Accepted expiry date layouts
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// requiredMessages are the user facing messages for missing fields, keyed by JSON name
var requiredMessages = map[string]string{
	"pharmacyName":      "Please provide pharmacy name",
	"address":           "Please provide address",
	"contactNumber":     "Please provide contact number",
	"city":              "Please provide city",
	"pincode":           "Please provide pincode",
	"location":          "Please provide location",
	"name":              "Please provide medicine name",
	"brand":             "Please provide brand name",
	"category":          "Please provide category",
	"price":             "Please provide price",
	"quantityAvailable": "Please provide quantity",
	"expiryDate":        "Please provide expiry date",
}

// formatMessages override the pattern messages for digit-only fields
var formatMessages = map[string]string{
	"contactNumber": "Please provide a valid 10-digit contact number",
	"pincode":       "Please provide a valid 6-digit pincode",
	"expiryDate":    "Please provide a valid expiry date",
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("notblank", validators.NotBlank)

	_ = validate.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsOnly.MatchString(fl.Field().String())
	})

	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
}

// Struct validates v against its `validate` tags. Failures are returned as a
// *domain.ValidationError listing every field problem.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, Message(e))
	}
	return domain.NewValidationError(messages...)
}

// Message renders a single field error
func Message(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required", "notblank":
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
		return field + " is required"
	case "digits", "len", "date":
		if msg, ok := formatMessages[field]; ok {
			return msg
		}
		if e.Tag() == "len" {
			return fmt.Sprintf("%s must be exactly %s characters", field, e.Param())
		}
		return field + " has an invalid format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(e.Param()), ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	default:
		return field + " is invalid"
	}
}

// ParseDate parses a calendar date or an RFC 3339 timestamp into UTC
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
