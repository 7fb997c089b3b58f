package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownCRS is returned when a transform names an unregistered CRS code.
// It indicates a configuration bug, not a data problem.
var ErrUnknownCRS = errors.New("unknown crs")

// ParseError reports a structurally malformed capabilities document.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("capabilities: %s", e.Reason)
}

// NewParseError builds a ParseError with a formatted reason.
func NewParseError(format string, args ...any) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}
