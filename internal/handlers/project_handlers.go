package handlers

import (
	"net/http"
	"time"

	"pomodoroTracker/internal/handlers/dto"
	"pomodoroTracker/internal/logger"

	"go.uber.org/zap"
)

func (h *Handler) PostProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ProjectRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	p, err := h.services.Projects.Create(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, err, "не удалось создать проект")
		return
	}

	logger.Info("HTTP_OUT: Проект создан",
		zap.String("project_id", p.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("project", p))
}

func (h *Handler) SearchProjects(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	q, err := parseProjectQuery(r.URL.Query())
	if err != nil {
		handleServiceError(w, err, "неверные параметры поиска")
		return
	}

	page, err := h.services.Projects.Search(r.Context(), q)
	if err != nil {
		handleServiceError(w, err, "не удалось получить проекты")
		return
	}

	logger.Info("HTTP_OUT: Проекты получены",
		zap.Int("total", page.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("projects", page))
}

func (h *Handler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.services.Projects.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось получить проект")
		return
	}

	logger.Info("HTTP_OUT: Проект получен",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("project", p))
}

func (h *Handler) UpdateProjectByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var request dto.ProjectRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	p, err := h.services.Projects.Update(r.Context(), id, request.ToInput())
	if err != nil {
		handleServiceError(w, err, "не удалось обновить проект")
		return
	}

	logger.Info("HTTP_OUT: Проект обновлён",
		zap.String("project_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("project", p))
}

func (h *Handler) DeleteProjectByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.services.Projects.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err, "не удалось удалить проект")
		return
	}

	logger.Info("HTTP_OUT: Проект удалён",
		zap.String("project_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// GetProjectSummary прогресс проекта и риск просрочки
func (h *Handler) GetProjectSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.services.Projects.Summary(r.Context(), id)
	if err != nil {
		handleServiceError(w, err, "не удалось посчитать прогресс проекта")
		return
	}

	logger.Info("HTTP_OUT: Прогресс проекта получен",
		zap.String("project_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("summary", summary))
}
