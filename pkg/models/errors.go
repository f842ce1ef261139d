package models

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentifierOverflow is matched by every *OverflowError.
	ErrIdentifierOverflow = errors.New("identifier overflow")
	// ErrState reports an identifier resolution that ran before the container was complete.
	ErrState = errors.New("invalid container state")
)

// OverflowError is returned when a position does not fit the fixed code width.
type OverflowError struct {
	Value int
	Width int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %d does not fit into %d digits", ErrIdentifierOverflow, e.Value, e.Width)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrIdentifierOverflow
}
