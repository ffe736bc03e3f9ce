package service

import (
	"errors"
	"fmt"

	"pomodoroTracker/internal/apperror"
	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь ошибки хранилища переводятся в ошибки бизнес-логики

const (
	resourceTask     = "task"
	resourcePomodoro = "pomodoro"
	resourceProject  = "project"
)

// storageError переводит repository.ErrNotFound в NOT_FOUND,
// остальные ошибки логирует и оборачивает
func storageError(err error, resource string, id uuid.UUID, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		logger.Info("Service: Объект не найден",
			zap.String("resource", resource),
			zap.String("target_id", id.String()))
		return apperror.NewNotFound(resource, id.String())
	}
	logger.Error("Service: Ошибка хранилища", err,
		zap.String("resource", resource),
		zap.String("action", action),
		zap.String("target_id", id.String()))
	return fmt.Errorf("%s: %w", action, err)
}

func requireTitle(field, value string) error {
	if value == "" {
		return apperror.NewValidationError(field, "не может быть пустым")
	}
	return nil
}
