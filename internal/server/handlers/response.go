package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/homekeeper/pkg/api"
)

// WriteJSON отправляет данные в обертке {success, data}
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
		WriteError(w, logger, "failed to encode response", http.StatusInternalServerError)
		return
	}

	writeEnvelope(w, logger, api.Envelope{Success: true, Data: payload}, statusCode)
}

// WriteError отправляет JSON ответ с ошибкой
func WriteError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	writeEnvelope(w, logger, api.Envelope{
		Error: &api.ErrorResponse{
			Error:   http.StatusText(statusCode),
			Message: message,
		},
	}, statusCode)
}

func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, env api.Envelope, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to write JSON response", slog.Any("error", err))
	}
}
