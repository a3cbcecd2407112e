package dashboard

import (
	"errors"
	"fmt"
)

// ErrUnknownView is returned for a view name other than baseline, followups
// or comparison.
var ErrUnknownView = errors.New("unknown analytics view")

// OperationError is the single failure kind surfaced by the dashboard: the
// operation that failed and a message fit for display.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *OperationError) Unwrap() error { return e.Err }

func opError(op string, err error) *OperationError {
	return &OperationError{Op: op, Message: err.Error(), Err: err}
}
