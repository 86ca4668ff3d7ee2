package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/homekeeper/pkg/api"
)

//go:generate moq -out client_mock.go . SyncClient

// SyncClient transport used by the sync processor and the cache store
type SyncClient interface {
	// Sync отправляет пакет изменений
	Sync(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error)

	// FetchEntities загружает все записи одного типа
	FetchEntities(ctx context.Context, token, entityType string) (*api.EntitiesResponse, error)

	// Health проверяет доступность сервера
	Health(ctx context.Context) error
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ SyncClient = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Sync отправляет пакет изменений на сервер.
// Ответ с кодом вне 2xx, содержащий разбираемый результат синхронизации,
// считается авторитетным и возвращается без ошибки; иначе ошибка
// классифицируется по коду статуса.
func (c *Client) Sync(ctx context.Context, token string, req *api.SyncRequest) (*api.SyncResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/sync", token, req)
	if err != nil {
		return nil, err
	}

	var resp api.SyncResponse
	decodeErr := decodeEnvelope(body, &resp)

	if status < 200 || status >= 300 {
		if decodeErr == nil && resp.Valid() {
			return &resp, nil
		}
		return nil, statusError(status, body)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if !resp.Valid() {
		return nil, fmt.Errorf("%w: unknown sync status %q", ErrMalformedResponse, resp.Status)
	}
	return &resp, nil
}

// FetchEntities загружает все записи одного типа
func (c *Client) FetchEntities(ctx context.Context, token, entityType string) (*api.EntitiesResponse, error) {
	path := "/api/v1/entities/" + url.PathEscape(entityType)
	status, body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(status, body)
	}

	var resp api.EntitiesResponse
	if err := decodeEnvelope(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodGet, "/api/v1/health", "", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return statusError(status, body)
	}
	return nil
}

// do выполняет HTTP запрос и возвращает код и тело ответа.
// Любая ошибка до получения полного ответа оборачивается в ErrNetwork.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	return resp.StatusCode, respBody, nil
}

// decodeEnvelope снимает обертку {success, data, error}.
// Ответ без обертки разбирается напрямую.
func decodeEnvelope(body []byte, result any) error {
	var env api.Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, result)
	}
	return json.Unmarshal(body, result)
}

func statusError(status int, body []byte) *StatusError {
	se := &StatusError{StatusCode: status, Body: body}

	var env api.Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		se.Message = env.Error.Error
		if env.Error.Message != "" {
			se.Message += ": " + env.Error.Message
		}
		return se
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		se.Message = errResp.Error
	}
	return se
}
