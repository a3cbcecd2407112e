package respondent

import "errors"

// Sentinel errors for the respondent service layer.
var (
	ErrNotFound = errors.New("respondent not found")
	ErrInvalid  = errors.New("invalid respondent")
)
