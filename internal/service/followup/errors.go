package followup

import "errors"

// Sentinel errors for the follow-up service layer.
var (
	ErrNotFound           = errors.New("follow-up not found")
	ErrRespondentNotFound = errors.New("respondent not found")
	ErrInvalid            = errors.New("invalid follow-up")
)
