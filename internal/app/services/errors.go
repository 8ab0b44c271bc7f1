// Package services holds errors shared by the domain service packages.
package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks input errors that callers should surface as a 400.
var ErrValidation = errors.New("validation failed")

// Invalidf builds a validation error with a caller-facing message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ValidationMessage extracts the caller-facing message from a validation
// error, without the sentinel prefix.
func ValidationMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
