// Package validation проверяет данные учетной записи, которые
// сервер записывает в выдаваемые токены.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidAccount данные учетной записи не прошли проверку
var ErrInvalidAccount = errors.New("invalid account")

var (
	// userIDPattern идентификатор попадает в ключи хранилища и журнала:
	// без пробелов и разделителей пути
	userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// usernamePattern только латинские буквы, цифры и подчеркивание
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const (
	// MaxUserIDLen максимальная длина идентификатора пользователя
	MaxUserIDLen = 64
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
)

// ValidateUserID проверяет идентификатор учетной записи
func ValidateUserID(userID string) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: user id cannot be empty", ErrInvalidAccount)
	case len(userID) > MaxUserIDLen:
		return fmt.Errorf("%w: user id must not exceed %d characters", ErrInvalidAccount, MaxUserIDLen)
	case !userIDPattern.MatchString(userID):
		return fmt.Errorf("%w: user id can only contain letters, numbers, '_', '.' and '-'", ErrInvalidAccount)
	}
	return nil
}

// ValidateUsername проверяет отображаемое имя. Пустое имя допустимо:
// клиент тогда показывает идентификатор
func ValidateUsername(username string) error {
	if username == "" {
		return nil
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("%w: username must be at least %d characters long", ErrInvalidAccount, MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username must not exceed %d characters", ErrInvalidAccount, MaxUsernameLen)
	}

	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)", ErrInvalidAccount)
	}

	return nil
}
