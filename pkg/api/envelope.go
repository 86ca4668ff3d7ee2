package api

import "encoding/json"

// Envelope общая обертка всех ответов сервера.
type Envelope struct {
	Data    json.RawMessage `json:"data,omitempty"`  // полезная нагрузка ответа
	Error   *ErrorResponse  `json:"error,omitempty"` // описание ошибки для неуспешных ответов
	Success bool            `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse ответ на проверку доступности сервера
type HealthResponse struct {
	Status string `json:"status"`
}
