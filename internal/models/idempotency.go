package models

import "time"

// LedgerStatus статус записи журнала идемпотентности на сервере.
type LedgerStatus string

const (
	LedgerStatusPending   LedgerStatus = "PENDING"
	LedgerStatusCompleted LedgerStatus = "COMPLETED"
	LedgerStatusFailed    LedgerStatus = "FAILED"
)

// DefaultLedgerRetention срок хранения выполненных записей журнала.
const DefaultLedgerRetention = 30 * 24 * time.Hour

// SyncIdempotencyKey запись журнала идемпотентности.
// Уникальна по паре (UserID, Key). PENDING -> COMPLETED, после чего не меняется.
type SyncIdempotencyKey struct {
	CreatedAt   time.Time    `json:"createdAt"`
	ProcessedAt *time.Time   `json:"processedAt,omitempty"` // ProcessedAt время завершения обработки
	UserID      string       `json:"userId"`
	Key         string       `json:"key"` // Key operationId клиента
	EntityType  EntityType   `json:"entityType"`
	EntityID    string       `json:"entityId"`
	RequestID   string       `json:"requestId"`
	Status      LedgerStatus `json:"status"`
	Fingerprint string       `json:"fingerprint,omitempty"` // Fingerprint хеш полезной нагрузки
}

// LedgerStats статистика журнала идемпотентности.
type LedgerStats struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Pending      int64 `json:"pending"`
	Failed       int64 `json:"failed"`
	OldCompleted int64 `json:"oldCompleted"` // OldCompleted выполненные записи старше срока хранения
}
