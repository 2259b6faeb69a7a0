package dataset

import "errors"

var (
	// ErrBadPattern is returned for a name pattern with an unterminated or
	// empty placeholder.
	ErrBadPattern = errors.New("dataset: malformed name pattern")

	// ErrMissingParameter is returned when a placeholder has neither a
	// control value nor a parameter default.
	ErrMissingParameter = errors.New("dataset: missing parameter value")

	// ErrInvalidPath is returned when an expanded name leaves the dataset
	// directory.
	ErrInvalidPath = errors.New("dataset: path escapes dataset directory")
)
