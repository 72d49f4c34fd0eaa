package domain

import (
	"errors"
	"fmt"
)

// ErrValidation tags every user-correctable input problem. Transports map
// anything wrapping it to a 400 response with the message surfaced verbatim.
var ErrValidation = errors.New("invalid request")

var (
	// ErrEmptyName is returned when the player name is empty after normalization.
	ErrEmptyName = fmt.Errorf("%w: player name is required", ErrValidation)
	// ErrNoAnswers is returned for a submission without any answers.
	ErrNoAnswers = fmt.Errorf("%w: no answers submitted", ErrValidation)
	// ErrNegativeTime is returned when a submitted totalTime is below zero.
	ErrNegativeTime = fmt.Errorf("%w: totalTime must not be negative", ErrValidation)
	// ErrBankEmpty indicates the question bank loaded with zero questions.
	ErrBankEmpty = errors.New("question bank is empty")
)

// DuplicateQuestionError rejects a submission that references the same
// question more than once.
func DuplicateQuestionError(id int) error {
	return fmt.Errorf("%w: duplicate answer for question %d", ErrValidation, id)
}

// UnknownQuestionError rejects a submission referencing a question that is
// not in the bank.
func UnknownQuestionError(id int) error {
	return fmt.Errorf("%w: unknown question %d", ErrValidation, id)
}
