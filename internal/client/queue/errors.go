package queue

import "errors"

var (
	// ErrEmptyLocalID indicates that a write has no local entity identifier
	ErrEmptyLocalID = errors.New("write target has no local id")

	// ErrEmptyPayload indicates that a write carries no entity state
	ErrEmptyPayload = errors.New("write target has no payload")
)
