package auth

import "context"

//go:generate moq -out credentials_mock.go . CredentialProvider

// CredentialProvider отдает текущие учетные данные.
// Получение и обновление токена происходит вне синхронизации;
// здесь доступны только «текущий bearer-токен» и «выполнен ли вход».
type CredentialProvider interface {
	// AccessToken возвращает текущий bearer-токен
	// или ErrNotSignedIn / ErrSessionExpired
	AccessToken(ctx context.Context) (string, error)

	// IsSignedIn проверяет, что сохранена действующая сессия
	IsSignedIn(ctx context.Context) (bool, error)
}
