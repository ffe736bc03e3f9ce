package handlers

import (
	"net/http"
	"time"

	"pomodoroTracker/internal/logger"

	"go.uber.org/zap"
)

func (h *Handler) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	projectID, err := optionalUUID(r.URL.Query(), "project_id")
	if err != nil {
		handleServiceError(w, err, "неверный project_id")
		return
	}

	st, err := h.services.Stats.Tasks(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err, "не удалось посчитать статистику задач")
		return
	}

	logger.Info("HTTP_OUT: Статистика задач получена",
		zap.Int("total", st.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("stats", st))
}

func (h *Handler) GetPomodoroStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	st, err := h.services.Stats.Pomodoros(r.Context())
	if err != nil {
		handleServiceError(w, err, "не удалось посчитать статистику сессий")
		return
	}

	logger.Info("HTTP_OUT: Статистика сессий получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("stats", st))
}
