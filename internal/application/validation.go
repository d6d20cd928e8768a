package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"whiteboard/internal/domain"
)

var validate = validator.New()

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateNodeID checks that id has the shape of an allocated node identifier
func ValidateNodeID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	if _, ok := domain.ParseID(id); !ok {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected %s, got: %s", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// ValidateStruct checks a value against its validate struct tags. The first
// failing field is reported as a ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Message: formatFieldError(fe),
	}
}

func formatFieldError(e validator.FieldError) string {
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color, got %v", field, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "sourceID" -> "source ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"sourceID":    "source ID",
		"targetID":    "target ID",
		"groupID":     "group ID",
		"nodeID":      "node ID",
		"StrokeWidth": "stroke width",
		"Shape":       "shape kind",
		"Routing":     "routing type",
		"Fill":        "fill",
		"Stroke":      "stroke",
		"Label":       "label",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}
