package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/treasury-admin/internal/domain/models"
	"github.com/linemk/treasury-admin/internal/service"
)

var validate = validator.New()

// SnapshotHandler обрабатывает запрос GET /api/treasury.
// Отдает последний построенный снапшот казны; при холодном старте сервис
// строит его на месте.
func SnapshotHandler(log *slog.Logger, treasury service.TreasuryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SnapshotHandler"
		logger := log.With(slog.String("op", op))

		snapshot, err := treasury.Snapshot(r.Context())
		if err != nil {
			logger.Error("failed to get snapshot", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// RefreshRequest представляет входной JSON принудительного пересчета.
// Нулевые значения заменяются настройками сервиса.
type RefreshRequest struct {
	Limit int `json:"limit" validate:"omitempty,gt=0,lte=10000"`
	Top   int `json:"top" validate:"omitempty,gt=0,lte=100"`
}

// RefreshHandler обрабатывает запрос POST /api/treasury/refresh.
// Принудительно пересчитывает снапшот и возвращает свежий.
func RefreshHandler(log *slog.Logger, treasury service.TreasuryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RefreshHandler"
		logger := log.With(slog.String("op", op))

		var req RefreshRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				logger.Error("invalid request: decoding error", slog.Any("error", err))
				http.Error(w, "invalid request", http.StatusBadRequest)
				return
			}
			if err := validate.Struct(req); err != nil {
				logger.Error("invalid request: validation error", slog.Any("error", err))
				http.Error(w, "invalid request", http.StatusBadRequest)
				return
			}
		}

		snapshot, err := treasury.Refresh(r.Context(), service.RefreshParams{
			Limit: req.Limit,
			TopN:  req.Top,
		})
		if err != nil {
			logger.Error("failed to refresh snapshot", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// AttributionHandler обрабатывает запрос GET /api/treasury/attribution.
// Возвращает связи атрибуции последнего прогона — производные данные для
// аудита, сырой леджер наружу не отдается.
func AttributionHandler(log *slog.Logger, treasury service.TreasuryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AttributionHandler"
		logger := log.With(slog.String("op", op))

		links := treasury.Attribution(r.Context())
		if links == nil {
			// прогона еще не было: отдаем пустой список, а не null
			links = []models.AttributionLink{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(struct {
			Links []models.AttributionLink `json:"links"`
		}{Links: links}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
