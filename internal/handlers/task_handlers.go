package handlers

import (
	"context"
	"net/http"
	"time"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/handlers/dto"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/task"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type Handler struct {
	services Services
	clock    clockwork.Clock
}

func NewHandler(services Services, c clockwork.Clock) *Handler {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Handler{
		services: services,
		clock:    c,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Tasks.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func (h *Handler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.services.Tasks.Create(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, err, "не удалось создать задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, h.clock.Now())))
}

func (h *Handler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	q, err := parseTaskQuery(r.URL.Query())
	if err != nil {
		handleServiceError(w, err, "неверные параметры поиска")
		return
	}

	page, err := h.services.Tasks.Search(r.Context(), q)
	if err != nil {
		handleServiceError(w, err, "не удалось получить задачи")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("total", page.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskPage(page, h.clock.Now())))
}

func (h *Handler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.services.Tasks.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось получить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, h.clock.Now())))
}

func (h *Handler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := h.services.Tasks.Update(r.Context(), id, request.ToInput())
	if err != nil {
		handleServiceError(w, err, "не удалось обновить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, h.clock.Now())))
}

func (h *Handler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Tasks.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err, "не удалось удалить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, "завершение", h.services.Tasks.Complete)
}

func (h *Handler) IncompleteTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, "возобновление", h.services.Tasks.Incomplete)
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, "переключение", h.services.Tasks.Toggle)
}

func (h *Handler) BulkSetStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.BulkStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	changed, err := h.services.Tasks.BulkSetStatus(r.Context(), request.IDs, request.Status)
	if err != nil {
		handleServiceError(w, err, "не удалось обновить задачи")
		return
	}

	logger.Info("HTTP_OUT: Статусы задач обновлены",
		zap.Int("changed", changed),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("result", dto.BulkStatusResponse{
		Requested: len(request.IDs),
		Changed:   changed,
	}))
}

func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var request dto.TagRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	t, err := h.services.Tasks.AddTag(r.Context(), id, request.Tag)
	if err != nil {
		handleServiceError(w, err, "не удалось добавить тег")
		return
	}

	logger.Info("HTTP_OUT: Тег добавлен",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, h.clock.Now())))
}

func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.services.Tasks.RemoveTag(r.Context(), id, chi.URLParam(r, "tag"))
	if err != nil {
		handleServiceError(w, err, "не удалось удалить тег")
		return
	}

	logger.Info("HTTP_OUT: Тег удалён",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, h.clock.Now())))
}

func (h *Handler) taskAction(w http.ResponseWriter, r *http.Request, action string,
	fn func(context.Context, uuid.UUID) (*task.Task, error)) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	t, err := fn(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось выполнить "+action+" задачи")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("action", action),
		zap.String("task_id", id.String()),
		zap.String("status", t.Status.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, h.clock.Now())))
}

func (h *Handler) MoveTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var request dto.MoveRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	if request.ProjectID == uuid.Nil {
		handleBusinessError(w, apperror.NewValidationError("project_id", "обязательное поле"))
		return
	}

	t, err := h.services.Tasks.Move(r.Context(), id, request.ProjectID)
	if err != nil {
		handleServiceError(w, err, "не удалось перенести задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача перенесена",
		zap.String("task_id", id.String()),
		zap.String("project_id", request.ProjectID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(t, h.clock.Now())))
}
