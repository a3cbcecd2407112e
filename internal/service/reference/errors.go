package reference

import "errors"

// Sentinel errors for the reference service layer.
var (
	ErrNotFound  = errors.New("reference entry not found")
	ErrDuplicate = errors.New("reference entry already exists")
	ErrInvalid   = errors.New("invalid reference entry")
)
