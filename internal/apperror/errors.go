package apperror

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInternal          = "INTERNAL"
)

var (
	ErrInvalidTransition = errors.New("недопустимый переход состояния")
	ErrNotFound          = errors.New("объект не найден")
	ErrInvalidInput      = errors.New("неверные входные данные")
	ErrInternal          = errors.New("внутренняя ошибка")
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

// Is сопоставляет ошибку с sentinel-ошибкой её кода
func (b *BusinessError) Is(target error) bool {
	switch b.Code {
	case CodeInvalidTransition:
		return target == ErrInvalidTransition
	case CodeNotFound:
		return target == ErrNotFound
	case CodeValidation:
		return target == ErrInvalidInput
	case CodeInternal:
		return target == ErrInternal
	}
	return false
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func New(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func Wrap(code string, message string, err error) *BusinessError {
	busErr := New(code, message)
	busErr.Err = err
	return busErr
}

func NewInvalidTransition(entity string, from, event fmt.Stringer) *BusinessError {
	return New(CodeInvalidTransition,
		fmt.Sprintf("%s: переход '%s' недопустим из состояния '%s'", entity, event, from),
		ToDetail("entity", entity),
		ToDetail("from", from.String()),
		ToDetail("event", event.String()),
	)
}

func NewNotFound(resource string, id string) *BusinessError {
	return New(CodeNotFound,
		fmt.Sprintf("%s %s не найден(а)", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return New(CodeValidation,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

// CodeOf возвращает код бизнес-ошибки или INTERNAL
func CodeOf(err error) string {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr.Code
	}
	return CodeInternal
}
