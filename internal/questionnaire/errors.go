package questionnaire

import "errors"

var (
	ErrNotAnswered     = errors.New("question not answered")
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrAtStart         = errors.New("already at the first question")
	ErrFinished        = errors.New("questionnaire already submitted")
	ErrSessionNotFound = errors.New("questionnaire session not found")
)
