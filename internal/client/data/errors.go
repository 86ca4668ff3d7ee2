package data

import "errors"

var (
	// ErrNotFound запись отсутствует в локальном кэше
	ErrNotFound = errors.New("record not found")

	// ErrEmptyListID позиция списка покупок без списка
	ErrEmptyListID = errors.New("list id is required")

	// ErrEmptyKey не указан идентификатор записи
	ErrEmptyKey = errors.New("record id is required")
)
