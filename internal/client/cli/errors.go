package cli

import "errors"

var (
	// ErrEmptyToken indicates that no access token was provided
	ErrEmptyToken = errors.New("access token cannot be empty")

	// ErrInvalidAssignment indicates a --set value without key=value form
	ErrInvalidAssignment = errors.New("expected key=value")

	// ErrNothingToUpdate indicates that update was called without changes
	ErrNothingToUpdate = errors.New("no changes given, use --set key=value")
)
