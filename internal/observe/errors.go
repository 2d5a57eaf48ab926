package observe

import "errors"

// Domain errors for subject and parameter operations.
var (
	// ErrDuplicateParameter indicates a parameter name is already registered.
	ErrDuplicateParameter = errors.New("observe: parameter already registered")

	// ErrUnknownParameter indicates no parameter exists with the given name.
	ErrUnknownParameter = errors.New("observe: unknown parameter")

	// ErrWrongParameterKind indicates a narrowed lookup found a parameter of
	// a different concrete kind.
	ErrWrongParameterKind = errors.New("observe: parameter kind mismatch")

	// ErrOutOfRange indicates a value outside a parameter's bounds.
	ErrOutOfRange = errors.New("observe: value outside allowed range")

	// ErrNotAChoice indicates a value not among a parameter's choices.
	ErrNotAChoice = errors.New("observe: value not among allowed choices")

	// ErrChoicesMismatch indicates choice and value arrays of differing length.
	ErrChoicesMismatch = errors.New("observe: choices and values lengths differ")

	// ErrInvalidName indicates a name that cannot be normalized.
	ErrInvalidName = errors.New("observe: invalid name")
)
