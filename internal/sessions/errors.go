package sessions

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNotSessionOwner  = errors.New("session belongs to another user")
	ErrSessionFinished  = errors.New("session already finished")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidResults   = errors.New("invalid session results")
)
