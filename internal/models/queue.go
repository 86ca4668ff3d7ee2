package models

import "time"

// QueueSchemaVersion версия формата записей очереди, которую понимает клиент.
const QueueSchemaVersion = 1

// WriteStatus статус отложенной записи.
type WriteStatus string

const (
	WriteStatusPending         WriteStatus = "pending"          // ожидает отправки
	WriteStatusSent            WriteStatus = "sent"             // отправлена, ждем результата
	WriteStatusFailedPermanent WriteStatus = "failed_permanent" // авто-повторы прекращены
)

// WriteAction тип изменения.
type WriteAction string

const (
	ActionCreate WriteAction = "create"
	ActionUpdate WriteAction = "update"
	ActionDelete WriteAction = "delete"
)

// WriteTarget описывает изменяемую сущность.
type WriteTarget struct {
	Payload Record `json:"payload"`      // Payload полное состояние записи после изменения
	LocalID string `json:"localId"`      // LocalID стабильный клиентский идентификатор
	ID      string `json:"id,omitempty"` // ID серверный идентификатор, если уже известен
}

// QueuedWrite представляет локальное изменение, ожидающее синхронизации.
// Для одной пары (EntityType, Target.LocalID) допускается несколько записей.
type QueuedWrite struct {
	ClientTimestamp time.Time   `json:"clientTimestamp"`     // ClientTimestamp время изменения на клиенте
	Target          WriteTarget `json:"target"`              // Target изменяемая сущность
	OperationID     string      `json:"operationId"`         // OperationID ключ идемпотентности (UUID)
	EntityType      EntityType  `json:"entityType"`          // EntityType тип сущности
	Action          WriteAction `json:"action"`              // Action create/update/delete
	Status          WriteStatus `json:"status"`              // Status текущий статус
	LastError       string      `json:"lastError,omitempty"` // LastError причина последней неудачи
	Attempts        int         `json:"attempts"`            // Attempts число неудачных отправок
	Version         int         `json:"version,omitempty"`   // Version версия схемы хранения
}

// SameEntity проверяет, относятся ли две записи к одной сущности.
func (w *QueuedWrite) SameEntity(other *QueuedWrite) bool {
	return w.EntityType == other.EntityType && w.Target.LocalID == other.Target.LocalID
}

// EntityKey возвращает ключ сущности (тип + localId).
func (w *QueuedWrite) EntityKey() string {
	return string(w.EntityType) + "/" + w.Target.LocalID
}

// SyncCheckpoint записывается перед отправкой пакета и удаляется после
// применения результата. Используется для повторной отправки после сбоя.
type SyncCheckpoint struct {
	CreatedAt         time.Time `json:"createdAt"`
	RequestID         string    `json:"requestId"`         // RequestID идентификатор пакета
	OperationIDs      []string  `json:"operationIds"`      // OperationIDs отправленные операции (после сжатия)
	BatchOperationIDs []string  `json:"batchOperationIds"` // BatchOperationIDs все записи пакета, включая дубликаты
}
