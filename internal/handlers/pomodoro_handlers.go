package handlers

import (
	"context"
	"net/http"
	"time"

	"pomodoroTracker/internal/handlers/dto"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/pomodoro"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *Handler) PostPomodoro(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var request dto.CreatePomodoroRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	p, err := h.services.Pomodoros.Create(r.Context(), taskID, request.ToInput())
	if err != nil {
		handleServiceError(w, err, "не удалось создать сессию")
		return
	}

	logger.Info("HTTP_OUT: Сессия создана",
		zap.String("pomodoro_id", p.UUID.String()),
		zap.String("task_id", taskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("pomodoro", p))
}

func (h *Handler) GetTaskPomodoros(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	sessions, err := h.services.Pomodoros.ListByTask(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err, "не удалось получить сессии задачи")
		return
	}

	logger.Info("HTTP_OUT: Сессии задачи получены",
		zap.Int("count", len(sessions)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("pomodoros", sessions))
}

func (h *Handler) GetNextPomodoro(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	next, err := h.services.Pomodoros.NextRecommendation(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err, "не удалось подобрать следующую сессию")
		return
	}

	logger.Info("HTTP_OUT: Рекомендация получена",
		zap.String("type", next.Type.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("recommendation", next))
}

func (h *Handler) GetPomodoroByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.services.Pomodoros.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось получить сессию")
		return
	}

	logger.Info("HTTP_OUT: Сессия получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("pomodoro", p))
}

func (h *Handler) GetPomodoroTimer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.services.Pomodoros.Timer(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось получить таймер")
		return
	}

	logger.Info("HTTP_OUT: Таймер получен",
		zap.Int("remaining_seconds", view.RemainingSeconds),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("timer", view))
}

func (h *Handler) StartPomodoro(w http.ResponseWriter, r *http.Request) {
	h.pomodoroAction(w, r, "start", h.services.Pomodoros.Start)
}

func (h *Handler) PausePomodoro(w http.ResponseWriter, r *http.Request) {
	h.pomodoroAction(w, r, "pause", h.services.Pomodoros.Pause)
}

func (h *Handler) ResumePomodoro(w http.ResponseWriter, r *http.Request) {
	h.pomodoroAction(w, r, "resume", h.services.Pomodoros.Resume)
}

func (h *Handler) CompletePomodoro(w http.ResponseWriter, r *http.Request) {
	h.pomodoroAction(w, r, "complete", h.services.Pomodoros.Complete)
}

func (h *Handler) CancelPomodoro(w http.ResponseWriter, r *http.Request) {
	h.pomodoroAction(w, r, "cancel", h.services.Pomodoros.Cancel)
}

func (h *Handler) pomodoroAction(w http.ResponseWriter, r *http.Request, event string,
	fn func(context.Context, uuid.UUID) (*pomodoro.Pomodoro, error)) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	p, err := fn(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось выполнить переход "+event)
		return
	}

	logger.Info("HTTP_OUT: Переход сессии выполнен",
		zap.String("event", event),
		zap.String("pomodoro_id", id.String()),
		zap.String("status", p.Status.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("pomodoro", p))
}
