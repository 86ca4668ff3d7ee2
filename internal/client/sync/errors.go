package sync

import "errors"

var (
	// ErrAuthRequired возвращается, когда сервер отклонил учетные данные
	// или вход не выполнен. Обработка остановлена до ResetAuth.
	ErrAuthRequired = errors.New("authentication required")

	// ErrStopped возвращает RunOnce, пока обработчик остановлен.
	// Всегда обернута вместе с ErrAuthRequired
	ErrStopped = errors.New("sync processor stopped")
)
