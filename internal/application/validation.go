package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

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

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "bookID" -> "book ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"bookID":   "book ID",
		"noteID":   "note ID",
		"name":     "book name",
		"borrower": "borrower name",
		"pubDate":  "published date",
		"total":    "total stock",
		"price":    "price",
		"query":    "book name or ID",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateNoCommas rejects values the comma-separated stock file cannot hold
func ValidateNoCommas(fieldName, value string) error {
	if strings.ContainsAny(value, ",\n") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not contain commas", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateNoPathSeparators rejects values that end up in a file name
func ValidateNoPathSeparators(fieldName, value string) error {
	if strings.ContainsAny(value, `/\`) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not contain / or \\", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ParseYear checks a four-digit publication year (YYYY)
func ParseYear(fieldName, value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) != 4 {
		return "", &ValidationError{Field: fieldName, Message: "use the YYYY format"}
	}
	if _, err := strconv.Atoi(value); err != nil {
		return "", &ValidationError{Field: fieldName, Message: "use the YYYY format"}
	}
	return value, nil
}

// ParseStock parses a non-negative stock count
func ParseStock(fieldName, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a whole number of at least 0", formatFieldName(fieldName)),
		}
	}
	return n, nil
}

// ParsePrice parses a non-negative decimal price
func ParsePrice(fieldName, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		return decimal.Zero, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a number of at least 0", formatFieldName(fieldName)),
		}
	}
	return d, nil
}
