package dialect

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArguments is returned when a function that requires
	// arguments is called with none.
	ErrMissingArguments = errors.New("requires at least 2 arguments: columns and entity")

	// ErrInsufficientArguments is returned when DISTINCT_ON receives a single
	// token, leaving nothing for either the grouping columns or the entity.
	ErrInsufficientArguments = errors.New("requires at least one column and the entity to select")

	// ErrDuplicateFunction is returned by Register for a name already taken.
	ErrDuplicateFunction = errors.New("function already registered")

	// ErrInvalidFunctionName is returned by Register for names outside [A-Za-z0-9_].
	ErrInvalidFunctionName = errors.New("invalid function name")
)

// ArgumentError reports an argument-count violation for a registered
// function. It unwraps to ErrMissingArguments or ErrInsufficientArguments.
type ArgumentError struct {
	Function string
	Count    int
	Err      error
}

func (e *ArgumentError) Error() string {
	return e.Function + " " + e.Err.Error()
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// UnsupportedFunctionError indicates a function the dialect refuses to render.
type UnsupportedFunctionError struct {
	Function string
	Dialect  string
	Hint     string
}

func (e UnsupportedFunctionError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Function, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Function)
}
