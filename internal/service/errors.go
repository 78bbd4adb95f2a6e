package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ( // Define custom errors
	ErrEmployeeExists     = errors.New("employee already exists")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("invalid input")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps, HTML datetime-local values and plain dates.
// dateOnly reports whether s carried no time of day.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, layout == "2006-01-02", nil
		}
	}
	return time.Time{}, false, invalid("invalid date %q", s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
