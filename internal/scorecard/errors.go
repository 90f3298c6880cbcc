package scorecard

import (
	"errors"
	"fmt"
)

var (
	ErrColumnUnassigned = errors.New("column has no identifier; set it before grading")
	ErrColumnOutOfRange = errors.New("column index out of range")
	ErrInvalidDeduction = errors.New("deduction must be between 0 and 100")
	ErrCommentRequired  = errors.New("comment is required for a non-zero deduction")
	ErrInvalidState     = errors.New("operation not allowed in current state")
	ErrUnknownCriterion = errors.New("unknown criterion")
)

// ErrorClass groups failures by how the caller should surface them.
type ErrorClass string

const (
	// ClassPrecondition is user-correctable and shown as a warning.
	ClassPrecondition ErrorClass = "precondition"
	ClassValidation   ErrorClass = "validation"
	// ClassMutation means a gateway write failed; local state was not advanced.
	ClassMutation ErrorClass = "mutation"
)

// Error is returned by the identity store and the edit flow.
type Error struct {
	Class ErrorClass
	Op    string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsWarning reports whether err is a non-fatal precondition violation.
func IsWarning(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Class == ClassPrecondition
}

// ClassOf returns the class of err, or "" when err is not a scorecard error.
func ClassOf(err error) ErrorClass {
	var se *Error
	if errors.As(err, &se) {
		return se.Class
	}
	return ""
}

func precondition(op string, err error) error {
	return &Error{Class: ClassPrecondition, Op: op, Err: err}
}

func validation(op string, err error) error {
	return &Error{Class: ClassValidation, Op: op, Err: err}
}

func mutation(op string, err error) error {
	return &Error{Class: ClassMutation, Op: op, Err: err}
}
