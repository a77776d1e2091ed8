// Package validate collects per-field input problems into a single error.
package validate

import (
	"sort"
	"strconv"
	"strings"
)

const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
)

// FieldErrors maps a request field to the messages raised against it. It
// encodes to JSON as {"field": ["message", ...]}.
type FieldErrors map[string][]string

// Add records msg against field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Err returns e as an error, or nil when nothing was recorded.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], " "))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Text trims value and records a problem when it is blank or longer than limit
// characters. It returns the trimmed value.
func Text(errs FieldErrors, field, value string, limit int) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		errs.Add(field, MsgBlank)
	case len([]rune(value)) > limit:
		errs.Add(field, "Ensure this field has no more than "+strconv.Itoa(limit)+" characters.")
	}
	return value
}
