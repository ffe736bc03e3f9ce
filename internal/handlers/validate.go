package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/models/task"
	"pomodoroTracker/internal/search"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSON проверяет Content-Type и читает тело запроса в dst.
// При ошибке ответ уже записан.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return false
	}
	return true
}

// parseID читает uuid из параметра маршрута. При ошибке ответ уже записан.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("HTTP: Неверный идентификатор",
			zap.String("param", param),
			zap.String("value", raw),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверный формат id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

func parseTaskQuery(values url.Values) (search.TaskQuery, error) {
	q := search.TaskQuery{
		Text: strings.TrimSpace(values.Get("q")),
		Sort: parseSort(values),
	}

	if raw := values.Get("status"); raw != "" {
		status, err := task.ParseStatus(raw)
		if err != nil {
			return q, apperror.NewValidationError("status", err.Error())
		}
		q.Filter.Status = &status
	}
	if raw := values.Get("priority"); raw != "" {
		priority, err := task.ParsePriority(raw)
		if err != nil {
			return q, apperror.NewValidationError("priority", err.Error())
		}
		q.Filter.Priority = &priority
	}

	var err error
	if q.Filter.ProjectID, err = optionalUUID(values, "project_id"); err != nil {
		return q, err
	}
	if q.Filter.AssigneeID, err = optionalUUID(values, "assignee_id"); err != nil {
		return q, err
	}
	if q.Filter.Overdue, err = optionalBool(values, "overdue"); err != nil {
		return q, err
	}
	if q.Filter.Completed, err = optionalBool(values, "completed"); err != nil {
		return q, err
	}
	for _, tag := range values["tag"] {
		if tag = strings.TrimSpace(tag); tag != "" {
			q.Filter.Tags = append(q.Filter.Tags, tag)
		}
	}

	q.Pagination, err = parsePagination(values)
	return q, err
}

func parseProjectQuery(values url.Values) (search.ProjectQuery, error) {
	q := search.ProjectQuery{
		Text: strings.TrimSpace(values.Get("q")),
		Sort: parseSort(values),
	}

	if raw := values.Get("status"); raw != "" {
		status, err := project.ParseStatus(raw)
		if err != nil {
			return q, apperror.NewValidationError("status", err.Error())
		}
		q.Filter.Status = &status
	}

	var err error
	if q.Filter.Overdue, err = optionalBool(values, "overdue"); err != nil {
		return q, err
	}
	q.Pagination, err = parsePagination(values)
	return q, err
}

func parseSort(values url.Values) search.Sort {
	return search.Sort{By: values.Get("sort"), Direction: values.Get("order")}
}

// parsePagination: page по умолчанию 1, size 20, size больше 100 обрезается
func parsePagination(values url.Values) (search.Pagination, error) {
	p := search.Pagination{Page: defaultPage, Size: defaultPageSize}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperror.NewValidationError("page", "должен быть целым числом")
		}
		p.Page = page
	}
	if raw := values.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperror.NewValidationError("size", "должен быть целым числом")
		}
		p.Size = min(size, maxPageSize)
	}
	return p, nil
}

func optionalUUID(values url.Values, key string) (*uuid.UUID, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidationError(key, "неверный формат uuid")
	}
	return &id, nil
}

func optionalBool(values url.Values, key string) (*bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.NewValidationError(key, "ожидается true или false")
	}
	return &v, nil
}
