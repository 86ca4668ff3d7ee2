package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/homekeeper/internal/client/storage"
)

// Session данные авторизации, сохраненные на устройстве
type Session struct {
	ExpiresAt   time.Time `json:"expiresAt"` // ExpiresAt срок действия токена (нулевой = бессрочный)
	Username    string    `json:"username"`
	UserID      string    `json:"userId"`
	AccessToken string    `json:"accessToken"`
}

// tokenClaims claims, которые выдает сервер
type tokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionStore хранит сессию в storage.Store
type SessionStore struct {
	store storage.Store
	now   func() time.Time
}

// Compile-time check that SessionStore implements CredentialProvider
var _ CredentialProvider = (*SessionStore)(nil)

// NewSessionStore creates session store on top of the storage port
func NewSessionStore(store storage.Store) *SessionStore {
	return &SessionStore{store: store, now: time.Now}
}

// ParseToken извлекает данные сессии из JWT без проверки подписи:
// подпись проверяет сервер, клиенту нужны только пользователь и срок действия.
func ParseToken(token string) (*Session, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	s := &Session{
		Username:    claims.Username,
		UserID:      claims.UserID,
		AccessToken: token,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return s, nil
}

// Login сохраняет сессию для переданного токена
func (s *SessionStore) Login(ctx context.Context, token string) (*Session, error) {
	session, err := ParseToken(token)
	if err != nil {
		return nil, err
	}
	if s.expired(session) {
		return nil, ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.store.Put(ctx, storage.SessionKey, data); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Logout удаляет сохраненную сессию
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.SessionKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Session возвращает сохраненную сессию или ErrNotSignedIn
func (s *SessionStore) Session(ctx context.Context) (*Session, error) {
	data, err := s.store.Get(ctx, storage.SessionKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// AccessToken возвращает токен текущей сессии
func (s *SessionStore) AccessToken(ctx context.Context) (string, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return "", err
	}
	if s.expired(session) {
		return "", ErrSessionExpired
	}
	return session.AccessToken, nil
}

// IsSignedIn проверяет наличие действующей сессии
func (s *SessionStore) IsSignedIn(ctx context.Context) (bool, error) {
	_, err := s.AccessToken(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotSignedIn), errors.Is(err, ErrSessionExpired):
		return false, nil
	default:
		return false, err
	}
}

func (s *SessionStore) expired(session *Session) bool {
	return !session.ExpiresAt.IsZero() && !s.now().Before(session.ExpiresAt)
}
