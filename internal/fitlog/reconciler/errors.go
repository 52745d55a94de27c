package reconciler

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks requests rejected before any side effect.
var ErrInvalidInput = errors.New("invalid input")

func missingField(name string) error {
	return fmt.Errorf("%w: missing field: %s", ErrInvalidInput, name)
}

// ExtractionError wraps any failure of the extractor. Nothing was written
// when it is returned.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
