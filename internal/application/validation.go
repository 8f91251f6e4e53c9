package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "systemName" -> "system name")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"systemName":  "system name",
		"title":       "title",
		"description": "description",
		"value":       "value",
		"label":       "label",
		"listID":      "list ID",
		"termID":      "term ID",
		"language":    "language",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateUnique rejects value when it matches, ignoring case, any of taken
func ValidateUnique(fieldName, value string, taken []string) error {
	for _, t := range taken {
		if strings.EqualFold(t, value) {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%q is already used", value),
			}
		}
	}
	return nil
}
