package api

import "time"

// PayloadVersion версия формата запроса синхронизации
const PayloadVersion = 1

// Статусы ответа синхронизации
const (
	SyncStatusSynced  = "synced"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// Причины конфликтов
const (
	ConflictServerNewer = "server_newer" // на сервере более новая версия
	ConflictDeleted     = "deleted"      // запись удалена на сервере
	ConflictNotFound    = "not_found"    // обновление записи, которой нет на сервере
	ConflictValidation  = "validation"   // запись не прошла проверку
)

// SyncOperation одно изменение в запросе синхронизации
type SyncOperation struct {
	ClientTimestamp time.Time      `json:"clientTimestamp"`
	Data            map[string]any `json:"data"`         // полное состояние записи
	OperationID     string         `json:"operationId"`  // ключ идемпотентности
	LocalID         string         `json:"localId"`      // клиентский идентификатор
	ID              string         `json:"id,omitempty"` // серверный идентификатор, если известен
	Action          string         `json:"action"`       // create/update/delete
}

// SyncRequest представляет запрос на синхронизацию от клиента
type SyncRequest struct {
	RequestID      string          `json:"requestId"`
	Lists          []SyncOperation `json:"lists,omitempty"`
	Recipes        []SyncOperation `json:"recipes,omitempty"`
	Chores         []SyncOperation `json:"chores,omitempty"`
	Items          []SyncOperation `json:"items,omitempty"`
	PayloadVersion int             `json:"payloadVersion"`
}

// Add добавляет операцию в массив, соответствующий типу сущности.
// Возвращает false для неизвестного типа.
func (r *SyncRequest) Add(entityType string, op SyncOperation) bool {
	switch entityType {
	case "list":
		r.Lists = append(r.Lists, op)
	case "recipe":
		r.Recipes = append(r.Recipes, op)
	case "chore":
		r.Chores = append(r.Chores, op)
	case "item":
		r.Items = append(r.Items, op)
	default:
		return false
	}
	return true
}

// Operations возвращает операции запроса, сгруппированные по типу сущности
func (r *SyncRequest) Operations() map[string][]SyncOperation {
	return map[string][]SyncOperation{
		"list":   r.Lists,
		"item":   r.Items,
		"recipe": r.Recipes,
		"chore":  r.Chores,
	}
}

// Len возвращает общее число операций в запросе
func (r *SyncRequest) Len() int {
	return len(r.Lists) + len(r.Recipes) + len(r.Chores) + len(r.Items)
}

// SyncConflict операция, которую сервер не применил из-за конфликта
type SyncConflict struct {
	Server      map[string]any `json:"server,omitempty"` // текущая версия записи на сервере
	Type        string         `json:"type"`             // тип сущности
	ID          string         `json:"id"`
	OperationID string         `json:"operationId"`
	Reason      string         `json:"reason"`
}

// SyncSucceeded операция, примененная сервером (или примененная ранее)
type SyncSucceeded struct {
	OperationID   string `json:"operationId"`
	EntityType    string `json:"entityType"`
	ID            string `json:"id"`                      // серверный идентификатор записи
	ClientLocalID string `json:"clientLocalId,omitempty"` // localId из запроса
}

// SyncResponse представляет ответ сервера на синхронизацию
type SyncResponse struct {
	ServerTime time.Time       `json:"serverTime"`
	Status     string          `json:"status"`
	Conflicts  []SyncConflict  `json:"conflicts"`
	Succeeded  []SyncSucceeded `json:"succeeded,omitempty"`
}

// Valid проверяет, что ответ содержит распознаваемый статус
func (r *SyncResponse) Valid() bool {
	switch r.Status {
	case SyncStatusSynced, SyncStatusPartial, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// EntitiesResponse ответ со всеми записями одного типа
type EntitiesResponse struct {
	ServerTime time.Time        `json:"serverTime"`
	Type       string           `json:"type"`
	Entities   []map[string]any `json:"entities"`
}

// LedgerStatsResponse статистика журнала идемпотентности
type LedgerStatsResponse struct {
	Total        int64 `json:"total"`
	Completed    int64 `json:"completed"`
	Pending      int64 `json:"pending"`
	Failed       int64 `json:"failed"`
	OldCompleted int64 `json:"oldCompleted"`
}
