package models

import "errors"

var (
	// ErrMissingTimestamp indicates that createdAt or updatedAt is not set
	ErrMissingTimestamp = errors.New("missing timestamp")

	// ErrUpdatedBeforeCreated indicates that a live record has updatedAt < createdAt
	ErrUpdatedBeforeCreated = errors.New("updatedAt is before createdAt")

	// ErrUnknownEntityType indicates an entity type outside of list|recipe|chore|item
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrEmptyName indicates that a household entity has no name
	ErrEmptyName = errors.New("name is required")

	// ErrMissingID indicates a record without a server id where one is required
	ErrMissingID = errors.New("record id is required")
)
