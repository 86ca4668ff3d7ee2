package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork означает, что ответ от сервера не получен
// (нет соединения, таймаут транспорта, обрыв при чтении тела).
var ErrNetwork = errors.New("network error")

// ErrMalformedResponse означает, что успешный ответ не удалось разобрать
var ErrMalformedResponse = errors.New("malformed response")

// StatusError ответ сервера с кодом вне диапазона 2xx
type StatusError struct {
	Message    string
	Body       []byte
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsAuthError проверяет, что сервер отклонил учетные данные (401/403)
func IsAuthError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}
