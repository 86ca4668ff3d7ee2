package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/storage"
	"github.com/iudanet/homekeeper/pkg/api"
)

// maxSyncBodySize ограничение размера тела запроса синхронизации
const maxSyncBodySize = 10 << 20

//go:generate moq -out storage_mock.go . Storage

// Storage хранилище записей и журнала идемпотентности
type Storage interface {
	storage.EntityStorage
	storage.LedgerStorage
}

// SyncHandler handles synchronization requests
type SyncHandler struct {
	logger    *slog.Logger
	storage   Storage
	now       func() time.Time
	newID     func() string
	retention time.Duration
	// операции применяются по одной: проверка журнала и запись
	// сущности не должны пересекаться между запросами
	mu sync.Mutex
}

// NewSyncHandler creates a new sync handler.
// retention задает возраст, после которого выполненные ключи журнала
// считаются устаревшими в статистике
func NewSyncHandler(logger *slog.Logger, storage Storage, retention time.Duration, newID func() string) *SyncHandler {
	return &SyncHandler{
		logger:    logger,
		storage:   storage,
		retention: retention,
		newID:     newID,
		now:       time.Now,
	}
}

// HandleSync обрабатывает POST /api/v1/sync.
// Применяет операции клиента и сообщает, какие применены, а какие
// конфликтуют с версией на сервере
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		WriteError(w, h.logger, "missing user", http.StatusUnauthorized)
		return
	}

	var req api.SyncRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSyncBodySize)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode sync request", "error", err)
		WriteError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.RequestID == "" {
		WriteError(w, h.logger, "requestId is required", http.StatusBadRequest)
		return
	}
	if req.PayloadVersion != api.PayloadVersion {
		h.logger.Warn("Unsupported payload version",
			"user_id", userID,
			"request_id", req.RequestID,
			"payload_version", req.PayloadVersion)
		WriteError(w, h.logger, "unsupported payload version", http.StatusBadRequest)
		return
	}

	h.logger.Info("POST sync request",
		"user_id", userID,
		"request_id", req.RequestID,
		"operations", req.Len())

	resp := api.SyncResponse{
		Conflicts: []api.SyncConflict{},
		Succeeded: []api.SyncSucceeded{},
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	operations := req.Operations()
	for _, entityType := range models.EntityTypes {
		for _, op := range operations[string(entityType)] {
			succeeded, conflict, err := h.applyOperation(ctx, userID, req.RequestID, entityType, op)
			if err != nil {
				// примененные операции уже отмечены в журнале,
				// повтор запроса их не применит второй раз
				h.logger.Error("Failed to apply sync operation",
					"user_id", userID,
					"request_id", req.RequestID,
					"operation_id", op.OperationID,
					"error", err)
				WriteError(w, h.logger, "internal server error", http.StatusInternalServerError)
				return
			}
			if conflict != nil {
				resp.Conflicts = append(resp.Conflicts, *conflict)
				continue
			}
			resp.Succeeded = append(resp.Succeeded, *succeeded)
		}
	}

	resp.ServerTime = h.now().UTC()
	resp.Status = syncStatus(len(resp.Succeeded), len(resp.Conflicts))

	WriteJSON(w, h.logger, resp, http.StatusOK)

	h.logger.Info("POST sync completed",
		"user_id", userID,
		"request_id", req.RequestID,
		"status", resp.Status,
		"succeeded", len(resp.Succeeded),
		"conflicts", len(resp.Conflicts))
}

// HandleEntities обрабатывает GET /api/v1/entities/{type}.
// Возвращает все записи типа вместе с tombstone, чтобы удаления
// доходили до кэша клиента
func (h *SyncHandler) HandleEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, "missing user", http.StatusUnauthorized)
		return
	}

	entityType, err := models.ParseEntityType(r.PathValue("type"))
	if err != nil {
		WriteError(w, h.logger, err.Error(), http.StatusNotFound)
		return
	}

	records, err := h.storage.ListEntities(ctx, userID, entityType)
	if err != nil {
		h.logger.Error("Failed to list entities", "error", err, "user_id", userID, "type", entityType)
		WriteError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	entities := make([]map[string]any, 0, len(records))
	for _, record := range records {
		entities = append(entities, record)
	}

	WriteJSON(w, h.logger, api.EntitiesResponse{
		ServerTime: h.now().UTC(),
		Type:       string(entityType),
		Entities:   entities,
	}, http.StatusOK)

	h.logger.Debug("Entities fetched", "user_id", userID, "type", entityType, "count", len(entities))
}

// HandleLedgerStats обрабатывает GET /api/v1/ledger/stats для текущего пользователя
func (h *SyncHandler) HandleLedgerStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, "missing user", http.StatusUnauthorized)
		return
	}

	stats, err := h.storage.LedgerStats(ctx, userID, h.now().Add(-h.retention))
	if err != nil {
		h.logger.Error("Failed to get ledger stats", "error", err, "user_id", userID)
		WriteError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, h.logger, api.LedgerStatsResponse{
		Total:        stats.Total,
		Completed:    stats.Completed,
		Pending:      stats.Pending,
		Failed:       stats.Failed,
		OldCompleted: stats.OldCompleted,
	}, http.StatusOK)
}

func syncStatus(succeeded, conflicts int) string {
	switch {
	case conflicts == 0:
		return api.SyncStatusSynced
	case succeeded == 0:
		return api.SyncStatusFailed
	default:
		return api.SyncStatusPartial
	}
}
