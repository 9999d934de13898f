package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by ledger readers when the user has no ledger.
var ErrNotFound = errors.New("ledger not found")

// DataShapeError reports a structural field of the ledger document that is
// present but of the wrong type.
type DataShapeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("ledger %s: %s", e.Path, e.Reason)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}

// IsDataShape reports whether err carries a DataShapeError.
func IsDataShape(err error) bool {
	var shapeErr *DataShapeError
	return errors.As(err, &shapeErr)
}
